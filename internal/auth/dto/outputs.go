package dto

import (
	"time"

	"go-mouli/internal/auth/models"
)

// LoginURLResponse carries the GitHub authorization URL
type LoginURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// LoginURLOutput wraps the login URL response
type LoginURLOutput struct {
	Body LoginURLResponse
}

// CallbackResponse is returned after a completed login
type CallbackResponse struct {
	AccountID   string `json:"account_id"`
	GitHubLogin string `json:"github_login"`
	Token       string `json:"token"`
}

// CallbackOutput wraps the callback response and sets the auth cookie
type CallbackOutput struct {
	SetCookie string `header:"Set-Cookie" doc:"Authentication cookie"`
	Body      CallbackResponse
}

// ProfileResponse is the caller's own account view
type ProfileResponse struct {
	ID          string   `json:"id"`
	GitHubLogin string   `json:"github_login"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Permissions []string `json:"permissions"`
}

// ProfileOutput wraps the profile response
type ProfileOutput struct {
	Body ProfileResponse
}

// LogoutOutput confirms logout and clears the auth cookie
type LogoutOutput struct {
	SetCookie string `header:"Set-Cookie" doc:"Clear authentication cookie"`
	Body      MessageResponse
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse represents an auth token in API responses. The token
// value itself is only returned at creation time.
type TokenResponse struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"account_id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// FromToken maps a model to its response form
func FromToken(token *models.AuthToken) TokenResponse {
	return TokenResponse{
		ID:         token.ID,
		AccountID:  token.AccountID,
		Name:       token.Name,
		CreatedAt:  token.CreatedAt,
		ExpiresAt:  token.ExpiresAt,
		LastUsedAt: token.LastUsedAt,
	}
}

// TokenOutput wraps a single token response
type TokenOutput struct {
	Body TokenResponse
}

// TokenCreatedResponse includes the raw token value, shown exactly once
type TokenCreatedResponse struct {
	TokenResponse
	Token string `json:"token"`
}

// TokenCreatedOutput wraps a token creation response
type TokenCreatedOutput struct {
	Body TokenCreatedResponse
}

// TokenListResponse is the token collection of one account
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}

// TokenListOutput wraps a token list response
type TokenListOutput struct {
	Body TokenListResponse
}

// MessageOutput wraps a confirmation message
type MessageOutput struct {
	Body MessageResponse
}
