package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// RunCreateRequest carries the fields of a new grading run
type RunCreateRequest struct {
	ProjectID          string `json:"project_id" required:"true" description:"Graded project ID" validate:"required"`
	MoulinetteSourceID string `json:"moulinette_source_id" required:"true" description:"Published source version to grade with" validate:"required"`
}

// ValidateRunCreateRequest validates the create payload
func ValidateRunCreateRequest(req *RunCreateRequest) error {
	return validate.Struct(req)
}

// RunCreateInput represents the input for requesting a run
type RunCreateInput struct {
	Authorization string           `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string           `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Body          RunCreateRequest `json:"body"`
}

// RunGetInput represents the input for fetching one run
type RunGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Run ID"`
}

// RunListInput represents the input for listing runs
type RunListInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	AccountID     string `query:"account_id" description:"Limit results to one account; defaults to the caller unless resource-wide read is granted"`
	ProjectID     string `query:"project_id" description:"Limit results to one project"`
	Page          int    `query:"page" minimum:"1" default:"1" description:"Page number"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" default:"20" description:"Page size"`
}

// RunStatusRequest carries a lifecycle transition
type RunStatusRequest struct {
	Status string   `json:"status" required:"true" enum:"running,passed,failed,errored" description:"Next lifecycle state" validate:"required,oneof=running passed failed errored"`
	Score  *float64 `json:"score,omitempty" minimum:"0" maximum:"100" description:"Final score, for terminal states" validate:"omitempty,gte=0,lte=100"`
	Output string   `json:"output,omitempty" description:"Grader output, for terminal states"`
}

// ValidateRunStatusRequest validates the transition payload
func ValidateRunStatusRequest(req *RunStatusRequest) error {
	return validate.Struct(req)
}

// RunStatusInput represents the input for advancing a run's lifecycle
type RunStatusInput struct {
	Authorization string           `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string           `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string           `path:"id" required:"true" description:"Run ID"`
	Body          RunStatusRequest `json:"body"`
}

// RunDeleteInput represents the input for deleting a run
type RunDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Run ID"`
}
