package routes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/organizations/dto"
	"go-mouli/internal/organizations/services"
	"go-mouli/pkg/handlers"
	"go-mouli/pkg/middleware"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

// RegisterOrganizationsRoutes registers organization routes on the
// shared Huma API
func RegisterOrganizationsRoutes(api huma.API, basePath string, service *services.Service, authmw *middleware.Auth) {
	huma.Register(api, huma.Operation{
		OperationID: "organizations-create",
		Method:      "POST",
		Path:        basePath,
		Summary:     "Create organization",
		Tags:        []string{"Organizations"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.OrganizationCreateInput) (*dto.OrganizationOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateOrganizationCreateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid organization", err)
		}

		org, err := service.CreateOrganization(ctx, acting.Snapshot(), input.Body.Name, input.Body.Slug, input.Body.Description)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to create organization")
		}
		return &dto.OrganizationOutput{Body: dto.FromOrganization(org)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "organizations-list",
		Method:      "GET",
		Path:        basePath,
		Summary:     "List organizations",
		Tags:        []string{"Organizations"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.OrganizationListInput) (*dto.OrganizationListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		orgs, total, err := service.ListOrganizations(ctx, acting.Snapshot(), input.Page, input.Limit)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list organizations")
		}

		responses := make([]dto.OrganizationResponse, len(orgs))
		for i := range orgs {
			responses[i] = dto.FromOrganization(&orgs[i])
		}
		return &dto.OrganizationListOutput{Body: dto.OrganizationListResponse{
			Organizations: responses,
			Total:         total,
			Page:          input.Page,
			Limit:         input.Limit,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "organizations-get",
		Method:      "GET",
		Path:        basePath + "/{id}",
		Summary:     "Get organization",
		Tags:        []string{"Organizations"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.OrganizationGetInput) (*dto.OrganizationOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		org, err := service.GetOrganization(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get organization")
		}
		return &dto.OrganizationOutput{Body: dto.FromOrganization(org)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "organizations-update",
		Method:      "PATCH",
		Path:        basePath + "/{id}",
		Summary:     "Update organization",
		Tags:        []string{"Organizations"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.OrganizationUpdateInput) (*dto.OrganizationOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateOrganizationUpdateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid organization update", err)
		}

		updates := bson.M{}
		if input.Body.Name != nil {
			updates["name"] = *input.Body.Name
		}
		if input.Body.Description != nil {
			updates["description"] = *input.Body.Description
		}

		org, err := service.UpdateOrganization(ctx, acting.Snapshot(), input.ID, updates)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to update organization")
		}
		return &dto.OrganizationOutput{Body: dto.FromOrganization(org)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "organizations-delete",
		Method:      "DELETE",
		Path:        basePath + "/{id}",
		Summary:     "Delete organization",
		Tags:        []string{"Organizations"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.OrganizationDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteOrganization(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to delete organization")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Organization deleted"}}, nil
	})
}
