package models

import (
	"time"

	"go-mouli/pkg/ability"
)

// Organization groups projects under a school, company or community.
// The owner is the account that created it.
type Organization struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (Organization) CollectionName() string {
	return "organizations"
}

func (o *Organization) AbilityResource() ability.Resource {
	return ability.ResourceOrganization
}

// AbilityField resolves the owner reference for own-scoped grants.
func (o *Organization) AbilityField(path string) (string, bool) {
	if path == ability.FieldOwnerID && o.OwnerID != "" {
		return o.OwnerID, true
	}
	return "", false
}
