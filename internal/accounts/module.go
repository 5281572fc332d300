package accounts

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"go-mouli/internal/accounts/routes"
	"go-mouli/internal/accounts/services"
	"go-mouli/pkg/database"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/module"
)

// Module represents the accounts module
type Module struct {
	*module.BaseModule
	service *services.Service
}

// New creates a new accounts module instance
func New(mongodb *database.MongoDB, redis *database.Redis) *Module {
	repository := services.NewRepository(mongodb)
	service := services.NewService(repository, redis)

	return &Module{
		BaseModule: module.NewBaseModule("accounts", mongodb, redis),
		service:    service,
	}
}

// GetService returns the accounts service instance
func (m *Module) GetService() *services.Service {
	return m.service
}

// SetTokenRevoker wires the auth module's service in so account
// deletion revokes outstanding credentials.
func (m *Module) SetTokenRevoker(revoker services.TokenRevoker) {
	m.service.SetTokenRevoker(revoker)
}

// Routes registers the module's chi routes (health only; the API
// surface lives on the unified Huma API)
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string, authmw *middleware.Auth) {
	routes.RegisterAccountsRoutes(api, basePath, m.service, authmw)
}
