package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Text analysis provider latency (milliseconds)
	AnalysisCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_call_latency_ms",
			Help:    "Text analysis provider call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	ContentCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_events_total",
			Help: "Content list cache operations by outcome",
		},
		[]string{"op", "result"}, // op: get, set, invalidate
	)
)

func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func RecordAnalysisCall(status string, duration time.Duration) {
	AnalysisCallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncrementCacheEvent(op, result string) {
	ContentCacheEvents.WithLabelValues(op, result).Inc()
}

// Middleware observes every request under its route pattern, so /contents/1
// and /contents/2 share one series. Label values are copied out of the
// fasthttp request buffer, which is reused by the next request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		RecordHTTPRequestDuration(utils.CopyString(c.Method()), utils.CopyString(c.Route().Path), strconv.Itoa(status), time.Since(start))
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.StatusOf(err)
}
