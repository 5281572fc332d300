package dto

import (
	"time"

	"go-mouli/internal/organizations/models"
)

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromOrganization converts a model into its API representation
func FromOrganization(org *models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Slug:        org.Slug,
		Description: org.Description,
		OwnerID:     org.OwnerID,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
}

// OrganizationOutput wraps a single organization response
type OrganizationOutput struct {
	Body OrganizationResponse
}

// OrganizationListResponse is a page of organizations
type OrganizationListResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// OrganizationListOutput wraps the organization list response
type OrganizationListOutput struct {
	Body OrganizationListResponse
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageOutput wraps a confirmation message
type MessageOutput struct {
	Body MessageResponse
}
