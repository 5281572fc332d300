package models

import (
	"time"

	"go-mouli/pkg/ability"
)

// RunStatus is the lifecycle state of a grading run
type RunStatus string

const (
	StatusPending RunStatus = "pending"
	StatusRunning RunStatus = "running"
	StatusPassed  RunStatus = "passed"
	StatusFailed  RunStatus = "failed"
	StatusErrored RunStatus = "errored"
)

// Terminal reports whether the status ends the run lifecycle
func (s RunStatus) Terminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusErrored
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// next. Runs start pending, move to running once picked up, and end in
// exactly one terminal state.
func (s RunStatus) CanTransitionTo(next RunStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusErrored
	case StatusRunning:
		return next.Terminal()
	default:
		return false
	}
}

// Run is one grading execution: a moulinette source applied to a
// submission for a project, requested by an account.
type Run struct {
	ID                 string     `bson:"_id" json:"id"`
	ProjectID          string     `bson:"project_id" json:"project_id"`
	MoulinetteSourceID string     `bson:"moulinette_source_id" json:"moulinette_source_id"`
	AccountID          string     `bson:"account_id" json:"account_id"`
	Status             RunStatus  `bson:"status" json:"status"`
	Score              *float64   `bson:"score,omitempty" json:"score,omitempty"`
	Output             string     `bson:"output,omitempty" json:"output,omitempty"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	StartedAt          *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	FinishedAt         *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
}

func (Run) CollectionName() string {
	return "runs"
}

func (r *Run) AbilityResource() ability.Resource {
	return ability.ResourceRun
}

// AbilityField resolves the requesting account for own-scoped grants.
func (r *Run) AbilityField(path string) (string, bool) {
	if path == ability.FieldAccountID && r.AccountID != "" {
		return r.AccountID, true
	}
	return "", false
}
