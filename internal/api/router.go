package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/api/handlers"
	custommiddleware "github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/api/middleware"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/config"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/jobs"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
)

// NewRouter creates and configures the HTTP router
func NewRouter(db *sql.DB, runner *jobs.Runner, snapshotRepo *repository.SnapshotRepository, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/rebuild", func(r chi.Router) {
			rebuildHandler := handlers.NewRebuildHandler(runner)
			r.Post("/", rebuildHandler.Submit)
			r.Get("/jobs/{jobId}", rebuildHandler.JobStatus)
		})

		r.Route("/snapshots", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(snapshotRepo)
			r.Get("/", snapshotHandler.History)
		})
	})

	return r
}
