package runs

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"

	"go-mouli/internal/runs/routes"
	"go-mouli/internal/runs/services"
	"go-mouli/pkg/config"
	"go-mouli/pkg/database"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/module"
)

// Module represents the runs module
type Module struct {
	*module.BaseModule
	service *services.Service
}

// New creates a new runs module instance
func New(mongodb *database.MongoDB, redis *database.Redis, projects services.ProjectDirectory, sources services.SourceDirectory) *Module {
	repository := services.NewRepository(mongodb)
	service := services.NewService(repository, projects, sources)

	return &Module{
		BaseModule: module.NewBaseModule("runs", mongodb, redis),
		service:    service,
	}
}

// GetService returns the runs service instance
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
	routes.RegisterRunsRoutes(api, basePath, m.service, authmw)
}

// StartBackgroundTasks periodically errors out runs stuck in a
// non-terminal state.
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	staleAfter := config.GetDurationEnv("RUN_STALE_AFTER", 24*time.Hour)

	c := cron.New()
	if _, err := c.AddFunc("@every 1h", func() {
		expired, err := m.service.ExpireStale(ctx, staleAfter)
		if err != nil {
			slog.Error("Failed to expire stale runs", "error", err)
			return
		}
		if expired > 0 {
			slog.Info("Expired stale runs", "count", expired)
		}
	}); err != nil {
		slog.Error("Failed to schedule stale run cleanup", "error", err)
		return
	}
	c.Start()
	slog.Info("Stale run cleanup scheduled", "module", m.Name(), "stale_after", staleAfter)

	select {
	case <-ctx.Done():
	case <-m.StopChannel():
	}
	c.Stop()
}
