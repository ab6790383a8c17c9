package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// MediaWrites считает успешные изменения коллекций изображений по типу родителя
	MediaWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_collection_writes_total",
			Help: "Successful writes to image collections",
		},
		[]string{"kind"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Upload attempts by result",
		},
		[]string{"result"},
	)

	OrphansDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "janitor_orphans_deleted_total",
			Help: "Uploaded objects removed because no image references them",
		},
	)
)
