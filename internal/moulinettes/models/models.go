package models

import (
	"time"

	"go-mouli/pkg/ability"
)

// Moulinette is a grading program attached to a project. The
// maintainer is the account that registered it and owns its lifecycle.
type Moulinette struct {
	ID           string    `bson:"_id" json:"id"`
	ProjectID    string    `bson:"project_id" json:"project_id"`
	MaintainerID string    `bson:"maintainer_id" json:"maintainer_id"`
	Name         string    `bson:"name" json:"name"`
	Repository   string    `bson:"repository" json:"repository"`
	IsOfficial   bool      `bson:"is_official" json:"is_official"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func (Moulinette) CollectionName() string {
	return "moulinettes"
}

func (m *Moulinette) AbilityResource() ability.Resource {
	return ability.ResourceMoulinette
}

// AbilityField resolves the maintainer reference for own-scoped grants.
func (m *Moulinette) AbilityField(path string) (string, bool) {
	if path == ability.FieldMaintainerID && m.MaintainerID != "" {
		return m.MaintainerID, true
	}
	return "", false
}

// MoulinetteSource is one published, immutable version of a
// moulinette. The maintainer id is denormalized from the parent so
// ownership checks need no extra lookup.
type MoulinetteSource struct {
	ID           string    `bson:"_id" json:"id"`
	MoulinetteID string    `bson:"moulinette_id" json:"moulinette_id"`
	MaintainerID string    `bson:"maintainer_id" json:"maintainer_id"`
	Version      string    `bson:"version" json:"version"`
	TarballURL   string    `bson:"tarball_url" json:"tarball_url"`
	Checksum     string    `bson:"checksum" json:"checksum"`
	PublishedAt  time.Time `bson:"published_at" json:"published_at"`
}

func (MoulinetteSource) CollectionName() string {
	return "moulinette_sources"
}

func (s *MoulinetteSource) AbilityResource() ability.Resource {
	return ability.ResourceMoulinetteSource
}

// AbilityField resolves the parent maintainer reference for own-scoped
// grants.
func (s *MoulinetteSource) AbilityField(path string) (string, bool) {
	if path == ability.FieldSourceMaintainerID && s.MaintainerID != "" {
		return s.MaintainerID, true
	}
	return "", false
}
