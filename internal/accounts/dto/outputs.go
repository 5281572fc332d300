package dto

import (
	"time"

	"go-mouli/internal/accounts/models"
)

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          string    `json:"id"`
	GitHubID    int64     `json:"github_id"`
	GitHubLogin string    `json:"github_login"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromAccount converts a model into its API representation
func FromAccount(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID,
		GitHubID:    account.GitHubID,
		GitHubLogin: account.GitHubLogin,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		Permissions: account.Permissions,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// AccountOutput wraps a single account response
type AccountOutput struct {
	Body AccountResponse
}

// AccountListResponse is a page of accounts
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// AccountListOutput wraps the account list response
type AccountListOutput struct {
	Body AccountListResponse
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageOutput wraps a confirmation message
type MessageOutput struct {
	Body MessageResponse
}

// PermissionCatalogResponse lists every permission atom the platform
// understands
type PermissionCatalogResponse struct {
	Permissions []string `json:"permissions"`
}

// PermissionCatalogOutput wraps the catalog response
type PermissionCatalogOutput struct {
	Body PermissionCatalogResponse
}
