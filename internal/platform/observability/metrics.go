package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stellar"

// Metrics owns a private registry so several clients can live in one process.
type Metrics struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	gatewayRequests  *prometheus.CounterVec
	gatewayLatency   *prometheus.HistogramVec
	cacheTransitions *prometheus.CounterVec
	cacheDeduped     *prometheus.CounterVec
}

// NewMetrics registers the client metric set. logger may be nil.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logger:   logger,
		gatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Gateway operations by outcome.",
		}, []string{"gateway", "op", "outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Gateway operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"gateway", "op"}),
		cacheTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_transitions_total",
			Help:      "Applied cache transitions by resulting status.",
		}, []string{"cache", "status"}),
		cacheDeduped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_fetch_deduplicated_total",
			Help:      "fetchStart intents suppressed because a fetch was already in flight.",
		}, []string{"cache"}),
	}
	m.registry.MustRegister(m.gatewayRequests, m.gatewayLatency, m.cacheTransitions, m.cacheDeduped)
	return m
}

// Registry exposes the registry for scraping or dumping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// StartSpan times a gateway operation; the returned func records its outcome.
func (m *Metrics) StartSpan(ctx context.Context, gateway, op string) func(error) {
	if m == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		elapsed := time.Since(start)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.gatewayRequests.WithLabelValues(gateway, op, outcome).Inc()
		m.gatewayLatency.WithLabelValues(gateway, op).Observe(elapsed.Seconds())

		if m.logger == nil {
			return
		}
		attrs := []slog.Attr{
			slog.String("gateway", gateway),
			slog.String("op", op),
			slog.Duration("duration", elapsed),
		}
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, slog.Any("error", err))
		}
		m.logger.LogAttrs(ctx, level, "[HTTP] gateway call", attrs...)
	}
}

// CacheTransition counts an applied transition.
func (m *Metrics) CacheTransition(cache, status string) {
	if m == nil {
		return
	}
	m.cacheTransitions.WithLabelValues(cache, status).Inc()
}

// FetchDeduplicated counts a suppressed fetchStart.
func (m *Metrics) FetchDeduplicated(cache string) {
	if m == nil {
		return
	}
	m.cacheDeduped.WithLabelValues(cache).Inc()
}
