// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rupamlabs/ecatalog/internal/catalog"
	"github.com/rupamlabs/ecatalog/internal/config"
	"github.com/rupamlabs/ecatalog/internal/store"
	"github.com/rupamlabs/ecatalog/internal/transport/rest"
	"github.com/rupamlabs/ecatalog/pkg/auth"
	"github.com/rupamlabs/ecatalog/pkg/server"
)

type Dependencies struct {
	CatalogService catalog.CatalogService
	AuthMiddleware func(http.Handler) http.Handler
	Logger         *slog.Logger
}

// SetupDependencies wires the row store, catalog service and, when enabled,
// the Firebase auth middleware for mutation routes.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	service := catalog.NewService(store.NewSheetsStore(cfg.Sheets), logger)

	deps := &Dependencies{
		CatalogService: service,
		Logger:         logger,
	}

	if cfg.Firebase.Enabled {
		verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase verifier: %w", err)
		}
		deps.AuthMiddleware = auth.Middleware(verifier)
	}

	return deps, nil
}

// SetupHttpHandler initializes the HTTP routes for the catalog service.
// Used by tests to exercise the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogHandler := rest.NewHandler(deps.CatalogService, deps.Logger)
	catalogHandler.RegisterRoutes(mux, deps.AuthMiddleware)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
