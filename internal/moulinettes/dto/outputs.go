package dto

import (
	"time"

	"go-mouli/internal/moulinettes/models"
)

// MoulinetteResponse represents a moulinette in API responses
type MoulinetteResponse struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	MaintainerID string    `json:"maintainer_id"`
	Name         string    `json:"name"`
	Repository   string    `json:"repository"`
	IsOfficial   bool      `json:"is_official"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FromMoulinette converts a model into its API representation
func FromMoulinette(m *models.Moulinette) MoulinetteResponse {
	return MoulinetteResponse{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		MaintainerID: m.MaintainerID,
		Name:         m.Name,
		Repository:   m.Repository,
		IsOfficial:   m.IsOfficial,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MoulinetteOutput wraps a single moulinette response
type MoulinetteOutput struct {
	Body MoulinetteResponse
}

// MoulinetteListResponse is a page of moulinettes
type MoulinetteListResponse struct {
	Moulinettes []MoulinetteResponse `json:"moulinettes"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

// MoulinetteListOutput wraps the moulinette list response
type MoulinetteListOutput struct {
	Body MoulinetteListResponse
}

// SourceResponse represents a published source in API responses
type SourceResponse struct {
	ID           string    `json:"id"`
	MoulinetteID string    `json:"moulinette_id"`
	MaintainerID string    `json:"maintainer_id"`
	Version      string    `json:"version"`
	TarballURL   string    `json:"tarball_url"`
	Checksum     string    `json:"checksum"`
	PublishedAt  time.Time `json:"published_at"`
}

// FromSource converts a model into its API representation
func FromSource(s *models.MoulinetteSource) SourceResponse {
	return SourceResponse{
		ID:           s.ID,
		MoulinetteID: s.MoulinetteID,
		MaintainerID: s.MaintainerID,
		Version:      s.Version,
		TarballURL:   s.TarballURL,
		Checksum:     s.Checksum,
		PublishedAt:  s.PublishedAt,
	}
}

// SourceOutput wraps a single source response
type SourceOutput struct {
	Body SourceResponse
}

// SourceListResponse is the published sources of one moulinette
type SourceListResponse struct {
	Sources []SourceResponse `json:"sources"`
}

// SourceListOutput wraps the source list response
type SourceListOutput struct {
	Body SourceListResponse
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageOutput wraps a confirmation message
type MessageOutput struct {
	Body MessageResponse
}
