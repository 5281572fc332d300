package models

import (
	"time"

	"go-mouli/pkg/ability"
)

// Account is a registered platform user. Accounts are created on first
// GitHub login and carry the persisted permission atoms the ability
// builder compiles.
type Account struct {
	ID          string    `bson:"_id" json:"id"`
	GitHubID    int64     `bson:"github_id" json:"github_id"`
	GitHubLogin string    `bson:"github_login" json:"github_login"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	DisplayName string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Permissions []string  `bson:"permissions" json:"permissions"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (Account) CollectionName() string {
	return "accounts"
}

func (a *Account) AbilityResource() ability.Resource {
	return ability.ResourceAccount
}

// AbilityField resolves the identity field for own-scoped grants: an
// account owns itself.
func (a *Account) AbilityField(path string) (string, bool) {
	if path == ability.FieldID && a.ID != "" {
		return a.ID, true
	}
	return "", false
}
