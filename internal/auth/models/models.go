package models

import (
	"time"

	"go-mouli/pkg/ability"
)

// AuthToken is the persisted record behind an issued JWT. Deleting the
// record revokes the credential even before the JWT expires.
type AuthToken struct {
	ID         string     `bson:"_id" json:"id"`
	AccountID  string     `bson:"account_id" json:"account_id"`
	Name       string     `bson:"name" json:"name"`
	TokenHash  string     `bson:"token_hash" json:"-"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt  time.Time  `bson:"expires_at" json:"expires_at"`
	LastUsedAt *time.Time `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`
}

func (AuthToken) CollectionName() string {
	return "auth_tokens"
}

func (t *AuthToken) AbilityResource() ability.Resource {
	return ability.ResourceAuthToken
}

// AbilityField resolves the owner reference for own-scoped grants.
func (t *AuthToken) AbilityField(path string) (string, bool) {
	if path == ability.FieldAccountID && t.AccountID != "" {
		return t.AccountID, true
	}
	return "", false
}
