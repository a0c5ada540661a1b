package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/H2Owater425/dqache/internal/metrics"
)

func TestCache_ObserveOpAppearsInExposition(t *testing.T) {
	reg := metrics.New(metrics.WithNamespace("dqache"))
	cache := metrics.NewCache(reg)

	cache.ObserveOp("GET", 5*time.Millisecond)
	cache.Hit()
	cache.Miss()
	cache.Eviction()
	cache.SetSize(3)

	rr := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	for _, want := range []string{
		"dqache_ops_total",
		"dqache_cache_hits_total 1",
		"dqache_cache_misses_total 1",
		"dqache_evictions_total 1",
		"dqache_cache_size 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %q, got:\n%s", want, body)
		}
	}
}
