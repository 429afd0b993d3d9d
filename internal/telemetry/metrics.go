package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConversionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Total number of conversion requests by outcome",
		},
		[]string{"status"},
	)

	RateFetchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_fetch_total",
			Help: "Total number of exchange rate fetches by base currency and outcome",
		},
		[]string{"base", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(ConversionCounter)
	prometheus.MustRegister(RateFetchCounter)
	prometheus.MustRegister(RequestDuration)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request durations labelled by the matched chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
