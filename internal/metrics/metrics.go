package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "gallery_http_request_duration_seconds",
		Help: "HTTP request latency in seconds.",
	}, []string{"method", "path"})

	UploadedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_uploaded_bytes_total",
		Help: "Total bytes accepted by the upload endpoint.",
	})
)
