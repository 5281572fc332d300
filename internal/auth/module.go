package auth

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"

	"go-mouli/internal/auth/routes"
	"go-mouli/internal/auth/services"
	"go-mouli/pkg/database"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/module"
)

// Module represents the auth module: GitHub OAuth, credential issuance
// and the auth token records behind them.
type Module struct {
	*module.BaseModule
	oauth   *services.GitHubOAuth
	service *services.Service
}

// New creates a new auth module instance. The accounts directory is the
// slice of the accounts service auth needs to upsert and load accounts.
func New(mongodb *database.MongoDB, redis *database.Redis, accounts services.AccountDirectory) *Module {
	repository := services.NewRepository(mongodb)
	service := services.NewService(repository, accounts, redis)

	return &Module{
		BaseModule: module.NewBaseModule("auth", mongodb, redis),
		oauth:      services.NewGitHubOAuth(redis),
		service:    service,
	}
}

// GetService returns the auth service instance
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
	routes.RegisterAuthRoutes(api, basePath, m.oauth, m.service, authmw)
}

// StartBackgroundTasks periodically purges expired token records
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	c := cron.New()
	if _, err := c.AddFunc("@every 15m", func() {
		purged, err := m.service.PurgeExpired(ctx)
		if err != nil {
			slog.Error("Failed to purge expired tokens", "error", err)
			return
		}
		if purged > 0 {
			slog.Info("Purged expired tokens", "count", purged)
		}
	}); err != nil {
		slog.Error("Failed to schedule token purge", "error", err)
		return
	}
	c.Start()
	slog.Info("Token purge scheduled", "module", m.Name(), "interval", "15m")

	select {
	case <-ctx.Done():
	case <-m.StopChannel():
	}
	c.Stop()
}
