package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGeodesicCounters(t *testing.T) {
	m := NewMetrics("geodesicd")
	m.ObservePoints("linestring", 17)
	m.ObservePoints("linestring", 0)
	m.ObserveSplit(1, 2)
	m.ObserveSplit(3, 3)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	if got := testutil.ToFloat64(m.PointsGenerated.WithLabelValues("linestring")); got != 17 {
		t.Errorf("expected 17 points, got %v", got)
	}
	if got := testutil.ToFloat64(m.LinesSplit); got != 1 {
		t.Errorf("expected 1 split, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheRequests.WithLabelValues("miss")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
}

func TestBuildInfoAndHandler(t *testing.T) {
	m := NewMetrics("geodesicd")
	m.RegisterBuildInfo("geodesicd", "1.0.0")
	m.RegisterBuildInfo("geodesicd", "ignored")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `build_info{service="geodesicd",version="1.0.0"} 1`) {
		t.Errorf("build_info missing from output")
	}
	if strings.Contains(body, "ignored") {
		t.Errorf("second RegisterBuildInfo should be a no-op")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObservePoints("x", 1)
	m.ObserveSplit(1, 2)
	m.ObserveCache(true)
	m.RegisterBuildInfo("a", "b")
}
