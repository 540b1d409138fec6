package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.LayoutsTotal == nil {
		t.Error("LayoutsTotal not initialized")
	}
	if r.CacheHitsTotal == nil {
		t.Error("CacheHitsTotal not initialized")
	}
	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.PrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestLayoutHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnLayoutStart(ctx, "force", 5)
	r.OnLayoutComplete(ctx, "force", 300, 10*time.Millisecond, nil)
	r.OnLayoutComplete(ctx, "force", 0, time.Millisecond, errors.New("boom"))
	r.OnLayoutComplete(ctx, "bundle", 0, time.Millisecond, nil)

	if got := testutil.ToFloat64(r.LayoutsTotal.WithLabelValues("force", "success")); got != 1 {
		t.Errorf("force success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.LayoutsTotal.WithLabelValues("force", "error")); got != 1 {
		t.Errorf("force error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.SimulationTicks); got != 1 {
		t.Errorf("simulation ticks series = %d, want 1", got)
	}
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnCacheHit(ctx, "layout")
	r.OnCacheHit(ctx, "layout")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 512)

	if got := testutil.ToFloat64(r.CacheHitsTotal.WithLabelValues("layout")); got != 2 {
		t.Errorf("layout hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CacheMissesTotal.WithLabelValues("artifact")); got != 1 {
		t.Errorf("artifact misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.CacheWriteBytes.WithLabelValues("artifact")); got != 512 {
		t.Errorf("artifact bytes = %v, want 512", got)
	}
}

func TestHTTPHooks(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.OnRequest(ctx, "POST", "/api/v1/layouts")
	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnResponse(ctx, "POST", "/api/v1/layouts", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(r.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/layouts", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.OnFetchComplete(context.Background(), "s3", "b/k", 100, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"sgviz_fetches_total", "sgviz_fetched_bytes_total", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
