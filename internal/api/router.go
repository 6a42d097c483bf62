package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stortingspuls/internal/snapshot"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Database interface{ Health(context.Context) error }
	Store    *snapshot.Store
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware)

	r.Get("/api/health", NewHealthHandler(cfg.Database))

	h := NewSnapshotHandler(cfg.Store)
	r.Route("/api", func(r chi.Router) {
		r.Get("/run", h.Run)
		r.Get("/tables/{table}", h.Table)
		r.Get("/insights", h.Insights)
	})

	return r
}
