package dto

import (
	"time"

	"go-mouli/internal/runs/models"
)

// RunResponse represents a run in API responses
type RunResponse struct {
	ID                 string     `json:"id"`
	ProjectID          string     `json:"project_id"`
	MoulinetteSourceID string     `json:"moulinette_source_id"`
	AccountID          string     `json:"account_id"`
	Status             string     `json:"status"`
	Score              *float64   `json:"score,omitempty"`
	Output             string     `json:"output,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	FinishedAt         *time.Time `json:"finished_at,omitempty"`
}

// FromRun converts a model into its API representation
func FromRun(run *models.Run) RunResponse {
	return RunResponse{
		ID:                 run.ID,
		ProjectID:          run.ProjectID,
		MoulinetteSourceID: run.MoulinetteSourceID,
		AccountID:          run.AccountID,
		Status:             string(run.Status),
		Score:              run.Score,
		Output:             run.Output,
		CreatedAt:          run.CreatedAt,
		StartedAt:          run.StartedAt,
		FinishedAt:         run.FinishedAt,
	}
}

// RunOutput wraps a single run response
type RunOutput struct {
	Body RunResponse
}

// RunListResponse is a page of runs
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// RunListOutput wraps the run list response
type RunListOutput struct {
	Body RunListResponse
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// MessageOutput wraps a confirmation message
type MessageOutput struct {
	Body MessageResponse
}
