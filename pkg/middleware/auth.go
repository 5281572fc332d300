// Package middleware provides request authentication for the unified
// Huma API. It resolves a bearer header or auth cookie into the acting
// account snapshot that resource services build abilities from.
package middleware

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"go-mouli/pkg/ability"
)

// AuthCookieName is the cookie the auth module sets after a completed
// GitHub login.
const AuthCookieName = "mouli_auth_token"

// SnapshotCacheKey is the Redis key verified account snapshots are
// cached under. The accounts service deletes it whenever it changes an
// account's permission set.
func SnapshotCacheKey(accountID string) string {
	return "account:snapshot:" + accountID
}

// AuthenticatedAccount is the resolved acting account attached to a
// request: identity plus the persisted permission atoms.
type AuthenticatedAccount struct {
	ID          string   `json:"id"`
	GitHubLogin string   `json:"github_login"`
	Permissions []string `json:"permissions"`
}

// Snapshot converts the account into the form the ability builder consumes.
func (a *AuthenticatedAccount) Snapshot() ability.Snapshot {
	return ability.Snapshot{ID: a.ID, Permissions: a.Permissions}
}

// AccountVerifier validates a raw JWT, confirms the backing auth token
// record is still active, and loads the account. Implemented by the auth
// module's service.
type AccountVerifier interface {
	VerifyToken(ctx context.Context, token string) (*AuthenticatedAccount, error)
}

// Auth is the authentication middleware shared by every module's routes.
type Auth struct {
	verifier AccountVerifier
}

func NewAuth(verifier AccountVerifier) *Auth {
	return &Auth{verifier: verifier}
}

// RequireAccount resolves the acting account from the Authorization
// header or the auth cookie. Returns a 401 Huma error when no valid
// credential is present; authorization decisions stay with the services.
func (a *Auth) RequireAccount(ctx context.Context, authHeader, cookieHeader string) (*AuthenticatedAccount, error) {
	token := ExtractToken(authHeader, cookieHeader)
	if token == "" {
		return nil, huma.Error401Unauthorized("Authentication required")
	}

	account, err := a.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired authentication token")
	}
	return account, nil
}

// ExtractToken pulls the raw JWT from a bearer Authorization header,
// falling back to the auth cookie.
func ExtractToken(authHeader, cookieHeader string) string {
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && name == AuthCookieName {
			return value
		}
	}
	return ""
}
