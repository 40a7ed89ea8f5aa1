package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(nil)

	m.StartSpan(context.Background(), "articles", "list")(nil)
	m.StartSpan(context.Background(), "articles", "list")(errors.New("boom"))
	m.CacheTransition("articles", "succeeded")
	m.FetchDeduplicated("articles")
	m.FetchDeduplicated("articles")

	if got := testutil.ToFloat64(m.gatewayRequests.WithLabelValues("articles", "list", "ok")); got != 1 {
		t.Fatalf("ok requests = %v", got)
	}
	if got := testutil.ToFloat64(m.gatewayRequests.WithLabelValues("articles", "list", "error")); got != 1 {
		t.Fatalf("error requests = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheTransitions.WithLabelValues("articles", "succeeded")); got != 1 {
		t.Fatalf("transitions = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheDeduped.WithLabelValues("articles")); got != 2 {
		t.Fatalf("deduplicated = %v", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.StartSpan(context.Background(), "apod", "get")(nil)
	m.CacheTransition("apod", "failed")
	m.FetchDeduplicated("apod")
	if m.Registry() != nil {
		t.Fatal("nil metrics should have no registry")
	}
}

func TestSetupDisabled(t *testing.T) {
	m, shutdown, err := Setup(context.Background(), Config{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil metrics when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
