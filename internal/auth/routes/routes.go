package routes

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"go-mouli/internal/auth/dto"
	"go-mouli/internal/auth/services"
	"go-mouli/pkg/handlers"
	"go-mouli/pkg/middleware"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

func authCookie(value string, maxAge int) string {
	return fmt.Sprintf("%s=%s; Path=/; Max-Age=%d; HttpOnly; SameSite=Lax",
		middleware.AuthCookieName, value, maxAge)
}

// RegisterAuthRoutes registers authentication routes on the shared Huma API
func RegisterAuthRoutes(api huma.API, basePath string, oauth *services.GitHubOAuth, service *services.Service, authmw *middleware.Auth) {
	huma.Register(api, huma.Operation{
		OperationID: "auth-github-login",
		Method:      "GET",
		Path:        basePath + "/github/login",
		Summary:     "Start GitHub login",
		Description: "Returns the GitHub authorization URL and a state nonce.",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *dto.GitHubLoginInput) (*dto.LoginURLOutput, error) {
		authURL, state, err := oauth.GenerateAuthURL(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to start login flow", err)
		}
		return &dto.LoginURLOutput{Body: dto.LoginURLResponse{AuthURL: authURL, State: state}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-github-callback",
		Method:      "GET",
		Path:        basePath + "/github/callback",
		Summary:     "Complete GitHub login",
		Description: "Exchanges the OAuth code, upserts the account and issues a session credential.",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *dto.GitHubCallbackInput) (*dto.CallbackOutput, error) {
		if !oauth.ConsumeState(ctx, input.State) {
			return nil, huma.Error400BadRequest("Invalid or expired state parameter")
		}

		tokenResp, err := oauth.ExchangeCode(ctx, input.Code)
		if err != nil {
			return nil, huma.Error502BadGateway("GitHub code exchange failed", err)
		}
		ghUser, err := oauth.FetchUser(ctx, tokenResp.AccessToken)
		if err != nil {
			return nil, huma.Error502BadGateway("Failed to fetch GitHub profile", err)
		}

		raw, account, err := service.CompleteLogin(ctx, ghUser.ID, ghUser.Login, ghUser.Email)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to complete login")
		}

		return &dto.CallbackOutput{
			SetCookie: authCookie(raw, int(service.SessionTTL().Seconds())),
			Body: dto.CallbackResponse{
				AccountID:   account.ID,
				GitHubLogin: account.GitHubLogin,
				Token:       raw,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-profile",
		Method:      "GET",
		Path:        basePath + "/profile",
		Summary:     "Get own profile",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.ProfileInput) (*dto.ProfileOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		return &dto.ProfileOutput{Body: dto.ProfileResponse{
			ID:          acting.ID,
			GitHubLogin: acting.GitHubLogin,
			Permissions: acting.Permissions,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-logout",
		Method:      "POST",
		Path:        basePath + "/logout",
		Summary:     "Log out",
		Description: "Revokes the presented credential and clears the auth cookie.",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.LogoutInput) (*dto.LogoutOutput, error) {
		raw := middleware.ExtractToken(input.Authorization, input.Cookie)
		if raw == "" {
			return nil, huma.Error401Unauthorized("Authentication required")
		}
		if err := service.RevokeByRawToken(ctx, raw); err != nil {
			return nil, huma.Error401Unauthorized("Invalid authentication token")
		}
		return &dto.LogoutOutput{
			SetCookie: authCookie("", 0),
			Body:      dto.MessageResponse{Message: "Logged out"},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-list-tokens",
		Method:      "GET",
		Path:        basePath + "/tokens",
		Summary:     "List auth tokens",
		Description: "List the tokens of an account. Own-scoped read capability covers the caller's own tokens.",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.TokenListInput) (*dto.TokenListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		tokens, err := service.ListTokens(ctx, acting.Snapshot(), input.AccountID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list tokens")
		}

		responses := make([]dto.TokenResponse, len(tokens))
		for i := range tokens {
			responses[i] = dto.FromToken(&tokens[i])
		}
		return &dto.TokenListOutput{Body: dto.TokenListResponse{Tokens: responses}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-get-token",
		Method:      "GET",
		Path:        basePath + "/tokens/{id}",
		Summary:     "Get auth token",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.TokenGetInput) (*dto.TokenOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		token, err := service.GetToken(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get token")
		}
		return &dto.TokenOutput{Body: dto.FromToken(token)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-create-token",
		Method:      "POST",
		Path:        basePath + "/tokens",
		Summary:     "Create API token",
		Description: "Issues a named long-lived token. The token value is returned exactly once.",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.TokenCreateInput) (*dto.TokenCreatedOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		ttl := time.Duration(input.Body.TTLHours) * time.Hour
		raw, token, err := service.CreateToken(ctx, acting.Snapshot(), input.Body.Name, ttl)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to create token")
		}
		return &dto.TokenCreatedOutput{Body: dto.TokenCreatedResponse{
			TokenResponse: dto.FromToken(token),
			Token:         raw,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-delete-token",
		Method:      "DELETE",
		Path:        basePath + "/tokens/{id}",
		Summary:     "Revoke auth token",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.TokenDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteToken(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to revoke token")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Token revoked"}}, nil
	})
}
