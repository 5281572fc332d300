package models

import (
	"time"

	"go-mouli/pkg/ability"
)

// Project is a coding exercise hosted by an organization. Moulinettes
// grade submissions against it. The owner is the account that created
// the project.
type Project struct {
	ID             string    `bson:"_id" json:"id"`
	OrganizationID string    `bson:"organization_id" json:"organization_id"`
	Name           string    `bson:"name" json:"name"`
	Slug           string    `bson:"slug" json:"slug"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	ModuleRef      string    `bson:"module_ref,omitempty" json:"module_ref,omitempty"`
	OwnerID        string    `bson:"owner_id" json:"owner_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

func (Project) CollectionName() string {
	return "projects"
}

func (p *Project) AbilityResource() ability.Resource {
	return ability.ResourceProject
}

// AbilityField resolves the owner reference for own-scoped grants.
func (p *Project) AbilityField(path string) (string, bool) {
	if path == ability.FieldOwnerID && p.OwnerID != "" {
		return p.OwnerID, true
	}
	return "", false
}
