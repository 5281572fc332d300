package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// AccountGetInput represents the input for fetching one account
type AccountGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Account ID"`
}

// AccountListInput represents the input for listing accounts
type AccountListInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Page          int    `query:"page" minimum:"1" default:"1" description:"Page number"`
	Limit         int    `query:"limit" minimum:"1" maximum:"100" default:"20" description:"Page size"`
}

// AccountUpdateRequest carries the editable profile fields
type AccountUpdateRequest struct {
	DisplayName *string `json:"display_name,omitempty" maxLength:"100" description:"Display name" validate:"omitempty,max=100"`
	Email       *string `json:"email,omitempty" description:"Contact email" validate:"omitempty,email"`
}

// ValidateAccountUpdateRequest validates the update payload
func ValidateAccountUpdateRequest(req *AccountUpdateRequest) error {
	return validate.Struct(req)
}

// AccountUpdateInput represents the input for updating an account
type AccountUpdateInput struct {
	Authorization string               `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string               `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string               `path:"id" required:"true" description:"Account ID"`
	Body          AccountUpdateRequest `json:"body"`
}

// AccountDeleteInput represents the input for deleting an account
type AccountDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Account ID"`
}

// PermissionsUpdateInput represents the input for replacing an
// account's permission atoms
type PermissionsUpdateInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Account ID"`
	Body          struct {
		Permissions []string `json:"permissions" required:"true" description:"Complete permission atom set for the account"`
	} `json:"body"`
}

// PermissionCatalogInput represents the input for listing the
// permission catalog
type PermissionCatalogInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
}
