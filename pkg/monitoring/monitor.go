package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// PracticeStarted counts start attempts by outcome:
	// ok, insufficient_lives, not_found, generation_failed, conflict.
	PracticeStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ravencode_practice_started_total",
			Help: "Practice session start attempts by outcome",
		},
		[]string{"outcome"},
	)

	LivesDebited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ravencode_lives_debited_total",
			Help: "Lives consumed by practice sessions",
		},
	)

	LivesRefunded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ravencode_lives_refunded_total",
			Help: "Lives returned after failed question generation",
		},
	)

	SessionsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ravencode_sessions_graded_total",
			Help: "Graded practice submissions",
		},
		[]string{"approved"},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ravencode_llm_requests_total",
			Help: "LLM requests by model, purpose and result",
		},
		[]string{"model", "purpose", "success"},
	)

	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ravencode_llm_request_duration_seconds",
			Help:    "LLM request latency",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"model", "purpose"},
	)

	LLMTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ravencode_llm_tokens_total",
			Help: "Tokens consumed by LLM requests",
		},
		[]string{"model", "direction"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			PracticeStarted,
			LivesDebited,
			LivesRefunded,
			SessionsGraded,
			LLMRequests,
			LLMLatency,
			LLMTokens,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
