package dto

import (
	"time"

	"go-mouli/internal/projects/models"
)

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description,omitempty"`
	ModuleRef      string    `json:"module_ref,omitempty"`
	OwnerID        string    `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromProject converts a model into its API representation
func FromProject(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Slug:           project.Slug,
		Description:    project.Description,
		ModuleRef:      project.ModuleRef,
		OwnerID:        project.OwnerID,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

// ProjectOutput wraps a single project response
type ProjectOutput struct {
	Body ProjectResponse
}

// ProjectListResponse is a page of projects
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// ProjectListOutput wraps the project list response
type ProjectListOutput struct {
	Body ProjectListResponse
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageOutput wraps a confirmation message
type MessageOutput struct {
	Body MessageResponse
}
