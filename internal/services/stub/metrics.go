package stub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts processing requests by response status
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procesar_requests_total",
			Help: "Total processing requests by HTTP status",
		},
		[]string{"status"},
	)

	// requestDuration tracks end-to-end processing latency in seconds
	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "procesar_request_duration_seconds",
			Help:    "Processing request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// uploadBytes counts accepted upload bytes by multipart part name
	uploadBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "procesar_upload_bytes_total",
			Help: "Accepted upload bytes by part",
		},
		[]string{"part"},
	)

	// sweepRemoved counts files removed by the upload sweeper
	sweepRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "procesar_sweep_removed_total",
			Help: "Total stale upload files removed by the sweeper",
		},
	)
)
