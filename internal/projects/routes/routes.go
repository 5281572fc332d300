package routes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/projects/dto"
	"go-mouli/internal/projects/services"
	"go-mouli/pkg/handlers"
	"go-mouli/pkg/middleware"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

// RegisterProjectsRoutes registers project routes on the shared Huma API
func RegisterProjectsRoutes(api huma.API, basePath string, service *services.Service, authmw *middleware.Auth) {
	huma.Register(api, huma.Operation{
		OperationID: "projects-create",
		Method:      "POST",
		Path:        basePath,
		Summary:     "Create project",
		Description: "Create a project in an existing organization.",
		Tags:        []string{"Projects"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.ProjectCreateInput) (*dto.ProjectOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateProjectCreateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid project", err)
		}

		project, err := service.CreateProject(ctx, acting.Snapshot(), input.Body.OrganizationID, input.Body.Name, input.Body.Slug, input.Body.Description, input.Body.ModuleRef)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to create project")
		}
		return &dto.ProjectOutput{Body: dto.FromProject(project)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "projects-list",
		Method:      "GET",
		Path:        basePath,
		Summary:     "List projects",
		Tags:        []string{"Projects"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.ProjectListInput) (*dto.ProjectListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		projects, total, err := service.ListProjects(ctx, acting.Snapshot(), input.OrganizationID, input.Page, input.Limit)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list projects")
		}

		responses := make([]dto.ProjectResponse, len(projects))
		for i := range projects {
			responses[i] = dto.FromProject(&projects[i])
		}
		return &dto.ProjectListOutput{Body: dto.ProjectListResponse{
			Projects: responses,
			Total:    total,
			Page:     input.Page,
			Limit:    input.Limit,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "projects-get",
		Method:      "GET",
		Path:        basePath + "/{id}",
		Summary:     "Get project",
		Tags:        []string{"Projects"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.ProjectGetInput) (*dto.ProjectOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		project, err := service.GetProject(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get project")
		}
		return &dto.ProjectOutput{Body: dto.FromProject(project)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "projects-update",
		Method:      "PATCH",
		Path:        basePath + "/{id}",
		Summary:     "Update project",
		Tags:        []string{"Projects"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.ProjectUpdateInput) (*dto.ProjectOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateProjectUpdateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid project update", err)
		}

		updates := bson.M{}
		if input.Body.Name != nil {
			updates["name"] = *input.Body.Name
		}
		if input.Body.Description != nil {
			updates["description"] = *input.Body.Description
		}
		if input.Body.ModuleRef != nil {
			updates["module_ref"] = *input.Body.ModuleRef
		}

		project, err := service.UpdateProject(ctx, acting.Snapshot(), input.ID, updates)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to update project")
		}
		return &dto.ProjectOutput{Body: dto.FromProject(project)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "projects-delete",
		Method:      "DELETE",
		Path:        basePath + "/{id}",
		Summary:     "Delete project",
		Tags:        []string{"Projects"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.ProjectDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteProject(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to delete project")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Project deleted"}}, nil
	})
}
