package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ProjectCreateRequest carries the fields of a new project
type ProjectCreateRequest struct {
	OrganizationID string `json:"organization_id" required:"true" description:"Hosting organization ID" validate:"required"`
	Name           string `json:"name" minLength:"1" maxLength:"100" required:"true" description:"Project name" validate:"required,max=100"`
	Slug           string `json:"slug" minLength:"1" maxLength:"64" required:"true" pattern:"^[a-z0-9][a-z0-9-]*$" description:"URL-safe identifier, unique within the organization" validate:"required,max=64"`
	Description    string `json:"description,omitempty" maxLength:"500" description:"Short description" validate:"omitempty,max=500"`
	ModuleRef      string `json:"module_ref,omitempty" maxLength:"200" description:"Reference to the exercise module this project grades" validate:"omitempty,max=200"`
}

// ValidateProjectCreateRequest validates the create payload
func ValidateProjectCreateRequest(req *ProjectCreateRequest) error {
	return validate.Struct(req)
}

// ProjectCreateInput represents the input for creating a project
type ProjectCreateInput struct {
	Authorization string               `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string               `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Body          ProjectCreateRequest `json:"body"`
}

// ProjectGetInput represents the input for fetching one project
type ProjectGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Project ID"`
}

// ProjectListInput represents the input for listing projects
type ProjectListInput struct {
	Authorization  string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie         string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	OrganizationID string `query:"organization_id" description:"Limit results to one organization"`
	Page           int    `query:"page" minimum:"1" default:"1" description:"Page number"`
	Limit          int    `query:"limit" minimum:"1" maximum:"100" default:"20" description:"Page size"`
}

// ProjectUpdateRequest carries the editable project fields
type ProjectUpdateRequest struct {
	Name        *string `json:"name,omitempty" maxLength:"100" description:"Project name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" maxLength:"500" description:"Short description" validate:"omitempty,max=500"`
	ModuleRef   *string `json:"module_ref,omitempty" maxLength:"200" description:"Reference to the exercise module this project grades" validate:"omitempty,max=200"`
}

// ValidateProjectUpdateRequest validates the update payload
func ValidateProjectUpdateRequest(req *ProjectUpdateRequest) error {
	return validate.Struct(req)
}

// ProjectUpdateInput represents the input for updating a project
type ProjectUpdateInput struct {
	Authorization string               `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string               `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string               `path:"id" required:"true" description:"Project ID"`
	Body          ProjectUpdateRequest `json:"body"`
}

// ProjectDeleteInput represents the input for deleting a project
type ProjectDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Project ID"`
}
