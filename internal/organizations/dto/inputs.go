package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// OrganizationCreateRequest carries the fields of a new organization
type OrganizationCreateRequest struct {
	Name        string `json:"name" minLength:"1" maxLength:"100" required:"true" description:"Organization name" validate:"required,max=100"`
	Slug        string `json:"slug" minLength:"1" maxLength:"64" required:"true" pattern:"^[a-z0-9][a-z0-9-]*$" description:"URL-safe unique identifier" validate:"required,max=64"`
	Description string `json:"description,omitempty" maxLength:"500" description:"Short description" validate:"omitempty,max=500"`
}

// ValidateOrganizationCreateRequest validates the create payload
func ValidateOrganizationCreateRequest(req *OrganizationCreateRequest) error {
	return validate.Struct(req)
}

// OrganizationCreateInput represents the input for creating an organization
type OrganizationCreateInput struct {
	Authorization string                    `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string                    `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Body          OrganizationCreateRequest `json:"body"`
}

// OrganizationGetInput represents the input for fetching one organization
type OrganizationGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Organization ID"`
}

// OrganizationListInput represents the input for listing organizations
type OrganizationListInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Page          int    `query:"page" minimum:"1" default:"1" description:"Page number"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" default:"20" description:"Page size"`
}

// OrganizationUpdateRequest carries the editable organization fields
type OrganizationUpdateRequest struct {
	Name        *string `json:"name,omitempty" maxLength:"100" description:"Organization name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" maxLength:"500" description:"Short description" validate:"omitempty,max=500"`
}

// ValidateOrganizationUpdateRequest validates the update payload
func ValidateOrganizationUpdateRequest(req *OrganizationUpdateRequest) error {
	return validate.Struct(req)
}

// OrganizationUpdateInput represents the input for updating an organization
type OrganizationUpdateInput struct {
	Authorization string                    `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string                    `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string                    `path:"id" required:"true" description:"Organization ID"`
	Body          OrganizationUpdateRequest `json:"body"`
}

// OrganizationDeleteInput represents the input for deleting an organization
type OrganizationDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Organization ID"`
}
