// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunedeck_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tunedeck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunedeck_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Playlist metrics
var (
	PlaylistOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunedeck_playlist_operations_total",
			Help: "Total number of playlist operations",
		},
		[]string{"operation", "result"}, // result: "ok", "not_found", "rejected", "error"
	)

	PlaylistTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunedeck_playlist_tracks",
			Help: "Number of tracks in the playlist",
		},
	)

	PlaylistFavorites = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunedeck_playlist_favorites",
			Help: "Number of tracks marked as favorite",
		},
	)

	ImportRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunedeck_import_rejections_total",
			Help: "Total number of imports rejected by a filter",
		},
		[]string{"source", "code"},
	)
)

// Storage metrics
var (
	StoreSaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tunedeck_store_save_duration_seconds",
			Help:    "Playlist save duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"status"},
	)
)

// Notification metrics
var (
	NotificationSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tunedeck_notification_subscribers",
			Help: "Number of active change subscribers",
		},
	)
)
