package routes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"go-mouli/internal/runs/dto"
	"go-mouli/internal/runs/models"
	"go-mouli/internal/runs/services"
	"go-mouli/pkg/handlers"
	"go-mouli/pkg/middleware"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

// RegisterRunsRoutes registers run routes on the shared Huma API
func RegisterRunsRoutes(api huma.API, basePath string, service *services.Service, authmw *middleware.Auth) {
	huma.Register(api, huma.Operation{
		OperationID: "runs-create",
		Method:      "POST",
		Path:        basePath,
		Summary:     "Request grading run",
		Description: "Queue a grading run of a published moulinette source against a project.",
		Tags:        []string{"Runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.RunCreateInput) (*dto.RunOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateRunCreateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid run", err)
		}

		run, err := service.CreateRun(ctx, acting.Snapshot(), input.Body.ProjectID, input.Body.MoulinetteSourceID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to create run")
		}
		return &dto.RunOutput{Body: dto.FromRun(run)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "runs-list",
		Method:      "GET",
		Path:        basePath,
		Summary:     "List runs",
		Tags:        []string{"Runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.RunListInput) (*dto.RunListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		runs, total, err := service.ListRuns(ctx, acting.Snapshot(), input.AccountID, input.ProjectID, input.Page, input.Limit)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list runs")
		}

		responses := make([]dto.RunResponse, len(runs))
		for i := range runs {
			responses[i] = dto.FromRun(&runs[i])
		}
		return &dto.RunListOutput{Body: dto.RunListResponse{
			Runs:  responses,
			Total: total,
			Page:  input.Page,
			Limit: input.Limit,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "runs-get",
		Method:      "GET",
		Path:        basePath + "/{id}",
		Summary:     "Get run",
		Tags:        []string{"Runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.RunGetInput) (*dto.RunOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		run, err := service.GetRun(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get run")
		}
		return &dto.RunOutput{Body: dto.FromRun(run)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "runs-update-status",
		Method:      "PATCH",
		Path:        basePath + "/{id}/status",
		Summary:     "Advance run status",
		Description: "Move a run through its lifecycle: pending to running, running to a terminal state.",
		Tags:        []string{"Runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.RunStatusInput) (*dto.RunOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateRunStatusRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid status transition", err)
		}

		run, err := service.UpdateStatus(ctx, acting.Snapshot(), input.ID, models.RunStatus(input.Body.Status), input.Body.Score, input.Body.Output)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to update run status")
		}
		return &dto.RunOutput{Body: dto.FromRun(run)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "runs-delete",
		Method:      "DELETE",
		Path:        basePath + "/{id}",
		Summary:     "Delete run",
		Tags:        []string{"Runs"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.RunDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteRun(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to delete run")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Run deleted"}}, nil
	})
}
