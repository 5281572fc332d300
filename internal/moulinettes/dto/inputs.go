package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// MoulinetteCreateRequest carries the fields of a new moulinette
type MoulinetteCreateRequest struct {
	ProjectID  string `json:"project_id" required:"true" description:"Graded project ID" validate:"required"`
	Name       string `json:"name" minLength:"1" maxLength:"100" required:"true" description:"Moulinette name" validate:"required,max=100"`
	Repository string `json:"repository" required:"true" description:"Git repository holding the grader" validate:"required,url"`
	IsOfficial bool   `json:"is_official,omitempty" description:"Marks the project's reference grader"`
}

// ValidateMoulinetteCreateRequest validates the create payload
func ValidateMoulinetteCreateRequest(req *MoulinetteCreateRequest) error {
	return validate.Struct(req)
}

// MoulinetteCreateInput represents the input for registering a moulinette
type MoulinetteCreateInput struct {
	Authorization string                  `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string                  `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Body          MoulinetteCreateRequest `json:"body"`
}

// MoulinetteGetInput represents the input for fetching one moulinette
type MoulinetteGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Moulinette ID"`
}

// MoulinetteListInput represents the input for listing moulinettes
type MoulinetteListInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ProjectID     string `query:"project_id" description:"Limit results to one project"`
	Page          int    `query:"page" minimum:"1" default:"1" description:"Page number"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" default:"20" description:"Page size"`
}

// MoulinetteUpdateRequest carries the editable moulinette fields
type MoulinetteUpdateRequest struct {
	Name       *string `json:"name,omitempty" maxLength:"100" description:"Moulinette name" validate:"omitempty,min=1,max=100"`
	Repository *string `json:"repository,omitempty" description:"Git repository holding the grader" validate:"omitempty,url"`
	IsOfficial *bool   `json:"is_official,omitempty" description:"Marks the project's reference grader"`
}

// ValidateMoulinetteUpdateRequest validates the update payload
func ValidateMoulinetteUpdateRequest(req *MoulinetteUpdateRequest) error {
	return validate.Struct(req)
}

// MoulinetteUpdateInput represents the input for updating a moulinette
type MoulinetteUpdateInput struct {
	Authorization string                  `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string                  `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string                  `path:"id" required:"true" description:"Moulinette ID"`
	Body          MoulinetteUpdateRequest `json:"body"`
}

// MoulinetteDeleteInput represents the input for deleting a moulinette
type MoulinetteDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Moulinette ID"`
}

// SourcePublishRequest carries the fields of a new published version
type SourcePublishRequest struct {
	Version    string `json:"version" minLength:"1" maxLength:"64" required:"true" description:"Version label, unique per moulinette" validate:"required,max=64"`
	TarballURL string `json:"tarball_url" required:"true" description:"Location of the source archive" validate:"required,url"`
	Checksum   string `json:"checksum" required:"true" description:"SHA-256 of the archive" validate:"required,len=64,hexadecimal"`
}

// ValidateSourcePublishRequest validates the publish payload
func ValidateSourcePublishRequest(req *SourcePublishRequest) error {
	return validate.Struct(req)
}

// SourcePublishInput represents the input for publishing a source version
type SourcePublishInput struct {
	Authorization string               `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string               `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	MoulinetteID  string               `path:"id" required:"true" description:"Moulinette ID"`
	Body          SourcePublishRequest `json:"body"`
}

// SourceListInput represents the input for listing published sources
type SourceListInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	MoulinetteID  string `path:"id" required:"true" description:"Moulinette ID"`
}

// SourceLatestInput represents the input for fetching the newest source
type SourceLatestInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	MoulinetteID  string `path:"id" required:"true" description:"Moulinette ID"`
}

// SourceGetInput represents the input for fetching one published source
type SourceGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Moulinette source ID"`
}

// SourceDeleteInput represents the input for deleting a published source
type SourceDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Moulinette source ID"`
}
