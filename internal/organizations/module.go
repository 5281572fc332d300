package organizations

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"go-mouli/internal/organizations/routes"
	"go-mouli/internal/organizations/services"
	"go-mouli/pkg/database"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/module"
)

// Module represents the organizations module
type Module struct {
	*module.BaseModule
	service *services.Service
}

// New creates a new organizations module instance
func New(mongodb *database.MongoDB, redis *database.Redis) *Module {
	repository := services.NewRepository(mongodb)
	service := services.NewService(repository)

	return &Module{
		BaseModule: module.NewBaseModule("organizations", mongodb, redis),
		service:    service,
	}
}

// GetService returns the organizations service instance
func (m *Module) GetService() *services.Service {
	return m.service
}

// Routes registers the module's chi routes (health only; the API
// surface lives on the unified Huma API)
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string, authmw *middleware.Auth) {
	routes.RegisterOrganizationsRoutes(api, basePath, m.service, authmw)
}
