package moulinettes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"go-mouli/internal/moulinettes/routes"
	"go-mouli/internal/moulinettes/services"
	"go-mouli/pkg/database"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/module"
)

// Module represents the moulinettes module
type Module struct {
	*module.BaseModule
	service *services.Service
}

// New creates a new moulinettes module instance
func New(mongodb *database.MongoDB, redis *database.Redis, projects services.ProjectDirectory) *Module {
	repository := services.NewRepository(mongodb)
	service := services.NewService(repository, projects)

	return &Module{
		BaseModule: module.NewBaseModule("moulinettes", mongodb, redis),
		service:    service,
	}
}

// GetService returns the moulinettes service instance
func (m *Module) GetService() *services.Service {
	return m.service
}

// Routes registers the module's chi routes (health only; the API
// surface lives on the unified Huma API)
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath, sourcesPath string, authmw *middleware.Auth) {
	routes.RegisterMoulinettesRoutes(api, basePath, sourcesPath, m.service, authmw)
}
