package routes

import (
	"context"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/accounts/dto"
	"go-mouli/internal/accounts/services"
	"go-mouli/pkg/handlers"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/permissions"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

// RegisterAccountsRoutes registers account routes on the shared Huma API
func RegisterAccountsRoutes(api huma.API, basePath string, service *services.Service, authmw *middleware.Auth) {
	huma.Register(api, huma.Operation{
		OperationID: "accounts-list",
		Method:      "GET",
		Path:        basePath,
		Summary:     "List accounts",
		Description: "List all accounts. Requires resource-wide account read capability.",
		Tags:        []string{"Accounts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.AccountListInput) (*dto.AccountListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		accounts, total, err := service.ListAccounts(ctx, acting.Snapshot(), input.Page, input.Limit)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list accounts")
		}

		responses := make([]dto.AccountResponse, len(accounts))
		for i := range accounts {
			responses[i] = dto.FromAccount(&accounts[i])
		}
		return &dto.AccountListOutput{Body: dto.AccountListResponse{
			Accounts: responses,
			Total:    total,
			Page:     input.Page,
			Limit:    input.Limit,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accounts-get",
		Method:      "GET",
		Path:        basePath + "/{id}",
		Summary:     "Get account",
		Tags:        []string{"Accounts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.AccountGetInput) (*dto.AccountOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		account, err := service.GetAccount(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get account")
		}
		return &dto.AccountOutput{Body: dto.FromAccount(account)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accounts-update",
		Method:      "PATCH",
		Path:        basePath + "/{id}",
		Summary:     "Update account",
		Description: "Update profile fields of an account.",
		Tags:        []string{"Accounts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.AccountUpdateInput) (*dto.AccountOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateAccountUpdateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid account update", err)
		}

		updates := bson.M{}
		if input.Body.DisplayName != nil {
			updates["display_name"] = *input.Body.DisplayName
		}
		if input.Body.Email != nil {
			updates["email"] = *input.Body.Email
		}

		account, err := service.UpdateAccount(ctx, acting.Snapshot(), input.ID, updates)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to update account")
		}
		return &dto.AccountOutput{Body: dto.FromAccount(account)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accounts-delete",
		Method:      "DELETE",
		Path:        basePath + "/{id}",
		Summary:     "Delete account",
		Description: "Delete an account and revoke all of its credentials.",
		Tags:        []string{"Accounts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.AccountDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteAccount(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to delete account")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Account deleted"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accounts-update-permissions",
		Method:      "PUT",
		Path:        basePath + "/{id}/permissions",
		Summary:     "Replace account permissions",
		Description: "Replace the target account's permission atom set. Requires the permission administration capability.",
		Tags:        []string{"Accounts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.PermissionsUpdateInput) (*dto.AccountOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		account, err := service.UpdatePermissions(ctx, acting.Snapshot(), input.ID, input.Body.Permissions)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to update permissions")
		}
		return &dto.AccountOutput{Body: dto.FromAccount(account)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accounts-permission-catalog",
		Method:      "GET",
		Path:        basePath + "/permissions/catalog",
		Summary:     "List permission catalog",
		Description: "List every permission atom the platform understands.",
		Tags:        []string{"Accounts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.PermissionCatalogInput) (*dto.PermissionCatalogOutput, error) {
		if _, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie); err != nil {
			return nil, err
		}

		atoms := permissions.Strings(permissions.All())
		sort.Strings(atoms)
		return &dto.PermissionCatalogOutput{Body: dto.PermissionCatalogResponse{Permissions: atoms}}, nil
	})
}
