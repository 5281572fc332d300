package routes

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/moulinettes/dto"
	"go-mouli/internal/moulinettes/services"
	"go-mouli/pkg/handlers"
	"go-mouli/pkg/middleware"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

// RegisterMoulinettesRoutes registers moulinette and source routes on
// the shared Huma API. Sources are nested under their moulinette for
// publish and list; individual sources are addressed flat.
func RegisterMoulinettesRoutes(api huma.API, basePath, sourcesPath string, service *services.Service, authmw *middleware.Auth) {
	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-create",
		Method:      "POST",
		Path:        basePath,
		Summary:     "Register moulinette",
		Description: "Register a grading program for an existing project.",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.MoulinetteCreateInput) (*dto.MoulinetteOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateMoulinetteCreateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid moulinette", err)
		}

		moulinette, err := service.CreateMoulinette(ctx, acting.Snapshot(), input.Body.ProjectID, input.Body.Name, input.Body.Repository, input.Body.IsOfficial)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to register moulinette")
		}
		return &dto.MoulinetteOutput{Body: dto.FromMoulinette(moulinette)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-list",
		Method:      "GET",
		Path:        basePath,
		Summary:     "List moulinettes",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.MoulinetteListInput) (*dto.MoulinetteListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		moulinettes, total, err := service.ListMoulinettes(ctx, acting.Snapshot(), input.ProjectID, input.Page, input.Limit)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list moulinettes")
		}

		responses := make([]dto.MoulinetteResponse, len(moulinettes))
		for i := range moulinettes {
			responses[i] = dto.FromMoulinette(&moulinettes[i])
		}
		return &dto.MoulinetteListOutput{Body: dto.MoulinetteListResponse{
			Moulinettes: responses,
			Total:       total,
			Page:        input.Page,
			Limit:       input.Limit,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-get",
		Method:      "GET",
		Path:        basePath + "/{id}",
		Summary:     "Get moulinette",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.MoulinetteGetInput) (*dto.MoulinetteOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		moulinette, err := service.GetMoulinette(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get moulinette")
		}
		return &dto.MoulinetteOutput{Body: dto.FromMoulinette(moulinette)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-update",
		Method:      "PATCH",
		Path:        basePath + "/{id}",
		Summary:     "Update moulinette",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.MoulinetteUpdateInput) (*dto.MoulinetteOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateMoulinetteUpdateRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid moulinette update", err)
		}

		updates := bson.M{}
		if input.Body.Name != nil {
			updates["name"] = *input.Body.Name
		}
		if input.Body.Repository != nil {
			updates["repository"] = *input.Body.Repository
		}
		if input.Body.IsOfficial != nil {
			updates["is_official"] = *input.Body.IsOfficial
		}

		moulinette, err := service.UpdateMoulinette(ctx, acting.Snapshot(), input.ID, updates)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to update moulinette")
		}
		return &dto.MoulinetteOutput{Body: dto.FromMoulinette(moulinette)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-delete",
		Method:      "DELETE",
		Path:        basePath + "/{id}",
		Summary:     "Delete moulinette",
		Description: "Delete a moulinette and all of its published sources.",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.MoulinetteDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteMoulinette(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to delete moulinette")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Moulinette deleted"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-publish-source",
		Method:      "POST",
		Path:        basePath + "/{id}/sources",
		Summary:     "Publish source version",
		Description: "Publish an immutable version of a moulinette. Versions cannot be republished.",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.SourcePublishInput) (*dto.SourceOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}
		if err := dto.ValidateSourcePublishRequest(&input.Body); err != nil {
			return nil, huma.Error400BadRequest("Invalid source", err)
		}

		source, err := service.PublishSource(ctx, acting.Snapshot(), input.MoulinetteID, input.Body.Version, input.Body.TarballURL, input.Body.Checksum)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to publish source")
		}
		return &dto.SourceOutput{Body: dto.FromSource(source)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-list-sources",
		Method:      "GET",
		Path:        basePath + "/{id}/sources",
		Summary:     "List source versions",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.SourceListInput) (*dto.SourceListOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		sources, err := service.ListSources(ctx, acting.Snapshot(), input.MoulinetteID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to list sources")
		}

		responses := make([]dto.SourceResponse, len(sources))
		for i := range sources {
			responses[i] = dto.FromSource(&sources[i])
		}
		return &dto.SourceListOutput{Body: dto.SourceListResponse{Sources: responses}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "moulinettes-latest-source",
		Method:      "GET",
		Path:        basePath + "/{id}/sources/latest",
		Summary:     "Get newest source version",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.SourceLatestInput) (*dto.SourceOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		source, err := service.LatestSource(ctx, acting.Snapshot(), input.MoulinetteID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get latest source")
		}
		return &dto.SourceOutput{Body: dto.FromSource(source)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sources-get",
		Method:      "GET",
		Path:        sourcesPath + "/{id}",
		Summary:     "Get source version",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.SourceGetInput) (*dto.SourceOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		source, err := service.GetSource(ctx, acting.Snapshot(), input.ID)
		if err != nil {
			return nil, handlers.HumaError(err, "Failed to get source")
		}
		return &dto.SourceOutput{Body: dto.FromSource(source)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sources-delete",
		Method:      "DELETE",
		Path:        sourcesPath + "/{id}",
		Summary:     "Delete source version",
		Tags:        []string{"Moulinettes"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *dto.SourceDeleteInput) (*dto.MessageOutput, error) {
		acting, err := authmw.RequireAccount(ctx, input.Authorization, input.Cookie)
		if err != nil {
			return nil, err
		}

		if err := service.DeleteSource(ctx, acting.Snapshot(), input.ID); err != nil {
			return nil, handlers.HumaError(err, "Failed to delete source")
		}
		return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Source deleted"}}, nil
	})
}
