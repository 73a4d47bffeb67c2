package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogdesk_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogdesk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogdesk_media_uploads_total",
			Help: "Media uploads by kind and result.",
		},
		[]string{"kind", "result"},
	)

	RenderCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogdesk_render_cache_total",
			Help: "Rendered post lookups by cache result.",
		},
		[]string{"result"},
	)

	PostSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogdesk_post_saves_total",
			Help: "Post saves from editor sessions by result.",
		},
		[]string{"result"},
	)
)

// RegisterSessionGauge экспортирует число открытых сессий редактора.
func RegisterSessionGauge(count func() int) error {
	return prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "blogdesk_editor_sessions",
			Help: "Open editor sessions.",
		},
		func() float64 { return float64(count()) },
	))
}

// Result переводит ошибку в метку result.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
