package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "go.uber.org/automaxprocs"

	"go-mouli/internal/accounts"
	"go-mouli/internal/auth"
	"go-mouli/internal/moulinettes"
	"go-mouli/internal/organizations"
	"go-mouli/internal/projects"
	"go-mouli/internal/runs"
	"go-mouli/pkg/app"
	"go-mouli/pkg/config"
	mouliMiddleware "go-mouli/pkg/middleware"
	"go-mouli/pkg/module"
)

// loggerMiddleware logs requests but excludes health check endpoints
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}
		chimiddleware.Logger(next).ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers for browser clients
func corsMiddleware(next http.Handler) http.Handler {
	allowed := config.GetEnv("CORS_ALLOWED_ORIGIN", "")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed != "" && (origin == allowed || strings.HasSuffix(origin, "."+allowed)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	ctx := context.Background()

	appCtx, err := app.InitializeApp("mouli")
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer appCtx.Shutdown(ctx)

	r := chi.NewRouter()
	r.Use(loggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Initialize modules. Accounts and auth depend on each other, so
	// the revoker is injected after construction.
	accountsModule := accounts.New(appCtx.MongoDB, appCtx.Redis)
	authModule := auth.New(appCtx.MongoDB, appCtx.Redis, accountsModule.GetService())
	accountsModule.SetTokenRevoker(authModule.GetService())

	organizationsModule := organizations.New(appCtx.MongoDB, appCtx.Redis)
	projectsModule := projects.New(appCtx.MongoDB, appCtx.Redis, organizationsModule.GetService())
	moulinettesModule := moulinettes.New(appCtx.MongoDB, appCtx.Redis, projectsModule.GetService())
	runsModule := runs.New(appCtx.MongoDB, appCtx.Redis, projectsModule.GetService(), moulinettesModule.GetService())

	modules := []module.Module{
		accountsModule, authModule, organizationsModule,
		projectsModule, moulinettesModule, runsModule,
	}

	authmw := mouliMiddleware.NewAuth(authModule.GetService())

	apiPrefix := config.GetAPIPrefix()

	humaConfig := huma.DefaultConfig("Mouli API Server", "1.0.0")
	humaConfig.Info.Description = "Coding exercise grading platform with capability-based access control"
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: mouliMiddleware.AuthCookieName,
		},
	}

	var api huma.API
	if apiPrefix == "" {
		api = humachi.New(r, humaConfig)
	} else {
		r.Route(apiPrefix, func(prefixRouter chi.Router) {
			api = humachi.New(prefixRouter, humaConfig)
		})
	}

	authModule.RegisterUnifiedRoutes(api, "/auth", authmw)
	accountsModule.RegisterUnifiedRoutes(api, "/accounts", authmw)
	organizationsModule.RegisterUnifiedRoutes(api, "/organizations", authmw)
	projectsModule.RegisterUnifiedRoutes(api, "/projects", authmw)
	moulinettesModule.RegisterUnifiedRoutes(api, "/moulinettes", "/sources", authmw)
	runsModule.RegisterUnifiedRoutes(api, "/runs", authmw)

	// Per-module health endpoints
	for _, mod := range modules {
		mod := mod
		r.Route("/"+mod.Name(), func(moduleRouter chi.Router) {
			mod.Routes(moduleRouter)
		})
	}

	for _, mod := range modules {
		go mod.StartBackgroundTasks(ctx)
	}

	host := config.GetHost()
	port := config.GetPort()
	srv := &http.Server{
		Addr:         host + ":" + port,
		Handler:      otelhttp.NewHandler(r, "mouli"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting mouli API server", slog.String("addr", srv.Addr), slog.String("prefix", apiPrefix))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	for _, mod := range modules {
		mod.Stop()
	}

	appCtx.Shutdown(shutdownCtx)
	slog.Info("Mouli shutdown completed")
}
