package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/isoforge/isoforge/internal/handlers"
	"github.com/isoforge/isoforge/internal/middleware"
)

// RouterConfig holds dependencies needed to configure routes
type RouterConfig struct {
	FormHandler   *handlers.FormHandler
	StatusHandler *handlers.StatusHandler
	StaticDir     string
}

// NewRouter constructs a ServeMux with all service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Form pages
	mux.HandleFunc("GET /{$}", cfg.FormHandler.Index)
	mux.HandleFunc("GET /about", cfg.FormHandler.About)
	mux.HandleFunc("POST /output", cfg.FormHandler.Submit)

	// Release status
	mux.HandleFunc("GET /api/status", cfg.StatusHandler.GetStatus)

	// Health endpoints
	mux.HandleFunc("GET /healthz", handlers.Health)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Static assets
	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}

	// Everything else gets the custom 404 page
	mux.HandleFunc("/", cfg.FormHandler.NotFound)

	return middleware.RequestID(mux)
}
