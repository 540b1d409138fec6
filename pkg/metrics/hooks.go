package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/sgviz/pkg/observability"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// OnFetchStart implements observability.PipelineHooks.
func (r *Registry) OnFetchStart(context.Context, string, string) {}

// OnFetchComplete records a remote fetch.
func (r *Registry) OnFetchComplete(_ context.Context, source, _ string, size int, d time.Duration, err error) {
	r.FetchesTotal.WithLabelValues(source, status(err)).Inc()
	r.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		r.FetchedBytes.WithLabelValues(source).Add(float64(size))
	}
}

// OnLayoutStart records the size of a layout request.
func (r *Registry) OnLayoutStart(_ context.Context, vizType string, nodeCount int) {
	r.LayoutNodes.WithLabelValues(vizType).Observe(float64(nodeCount))
}

// OnLayoutComplete records a finished layout.
func (r *Registry) OnLayoutComplete(_ context.Context, vizType string, ticks int, d time.Duration, err error) {
	r.LayoutsTotal.WithLabelValues(vizType, status(err)).Inc()
	r.LayoutDuration.WithLabelValues(vizType).Observe(d.Seconds())
	if ticks > 0 {
		r.SimulationTicks.Observe(float64(ticks))
	}
}

// OnRenderStart implements observability.PipelineHooks.
func (r *Registry) OnRenderStart(context.Context, []string) {}

// OnRenderComplete records one render per format.
func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		r.RendersTotal.WithLabelValues(f, status(err)).Inc()
	}
	r.RenderDuration.Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
