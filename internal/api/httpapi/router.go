// Package httpapi serves the plain HTTP surface: audio uploads and files,
// health, metrics, and the mounted RPC services.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiconnect "github.com/osa030/tunedeck/internal/api/connect"
	"github.com/osa030/tunedeck/internal/app/library"
	"github.com/osa030/tunedeck/internal/infra/config"
)

// Handlers serves the HTTP endpoints backed by the library.
type Handlers struct {
	library *library.Manager
	config  *config.Config
}

// NewHandlers creates the HTTP handlers.
func NewHandlers(lib *library.Manager, cfg *config.Config) *Handlers {
	return &Handlers{
		library: lib,
		config:  cfg,
	}
}

// NewRouter wires every route, the RPC services and the middleware.
func NewRouter(lib *library.Manager, cfg *config.Config) *mux.Router {
	h := NewHandlers(lib, cfg)
	r := mux.NewRouter()

	r.Use(Logger(DefaultLoggingConfig()))
	r.Use(Metrics(DefaultMetricsConfig()))

	// Health and metrics (no auth required)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Uploads
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tracks", h.UploadTrack).Methods(http.MethodPost)

	// Audio files
	r.PathPrefix("/music/").Handler(
		http.StripPrefix("/music/", http.FileServer(http.Dir(cfg.Library.MusicDir))),
	).Methods(http.MethodGet, http.MethodHead)

	// RPC services
	playlistPath, playlistHandler := apiconnect.NewPlaylistServiceHandler(apiconnect.NewPlaylistService(lib, cfg))
	libraryPath, libraryHandler := apiconnect.NewLibraryServiceHandler(apiconnect.NewLibraryService(lib, cfg))
	r.PathPrefix(playlistPath).Handler(playlistHandler)
	r.PathPrefix(libraryPath).Handler(libraryHandler)

	return r
}
