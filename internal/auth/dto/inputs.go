package dto

// GitHubLoginInput starts the OAuth flow; no authentication required
type GitHubLoginInput struct{}

// GitHubCallbackInput carries the OAuth redirect parameters
type GitHubCallbackInput struct {
	Code  string `query:"code" required:"true" description:"Authorization code from GitHub"`
	State string `query:"state" required:"true" description:"State nonce issued at login"`
}

// ProfileInput represents the input for fetching the caller's profile
type ProfileInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
}

// LogoutInput revokes the presented credential
type LogoutInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
}

// TokenListInput represents the input for listing auth tokens
type TokenListInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	AccountID     string `query:"account_id" description:"Target account; defaults to the caller's account"`
}

// TokenGetInput represents the input for fetching one auth token
type TokenGetInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Auth token ID"`
}

// TokenCreateInput represents the input for creating a named API token
type TokenCreateInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	Body          struct {
		Name     string `json:"name" minLength:"1" maxLength:"100" required:"true" description:"Token name"`
		TTLHours int    `json:"ttl_hours" minimum:"1" maximum:"8760" default:"720" description:"Token lifetime in hours"`
	} `json:"body"`
}

// TokenDeleteInput represents the input for revoking an auth token
type TokenDeleteInput struct {
	Authorization string `header:"Authorization" description:"Bearer token for authentication"`
	Cookie        string `header:"Cookie" description:"Cookie header containing mouli_auth_token"`
	ID            string `path:"id" required:"true" description:"Auth token ID"`
}
