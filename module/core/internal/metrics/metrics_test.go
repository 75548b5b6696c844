package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nandanugg/speedcam/module/core/domain"
)

func TestCollectorRecordsTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.FixProcessed(3 * time.Millisecond)
	c.FixProcessed(5 * time.Millisecond)
	c.FixRejected("invalid")
	c.Warned(domain.TierCritical)
	c.Overspeed(domain.OverspeedMild)
	c.IndexError()

	if got := testutil.ToFloat64(c.FixesTotal.WithLabelValues("processed")); got != 2 {
		t.Fatalf("processed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.FixesTotal.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.WarningsTotal.WithLabelValues("CRITICAL")); got != 1 {
		t.Fatalf("critical warnings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.OverspeedTotal.WithLabelValues("MILD")); got != 1 {
		t.Fatalf("mild samples = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.IndexErrorsTotal); got != 1 {
		t.Fatalf("index errors = %v, want 1", got)
	}
}

func TestCollectorNearestGauge(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := 412.5
	c.Nearest(&d, 2)
	if got := testutil.ToFloat64(c.NearestDistance); got != 412.5 {
		t.Fatalf("nearest = %v, want 412.5", got)
	}
	if got := testutil.ToFloat64(c.WarnedHazards); got != 2 {
		t.Fatalf("warned = %v, want 2", got)
	}

	c.Nearest(nil, 0)
	if got := testutil.ToFloat64(c.NearestDistance); got != -1 {
		t.Fatalf("nearest = %v, want -1", got)
	}
}

func TestNewTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}

	first.Warned(domain.TierNotice)
	if got := testutil.ToFloat64(second.WarningsTotal.WithLabelValues("NOTICE")); got != 1 {
		t.Fatalf("shared counter = %v, want 1", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.FixProcessed(time.Millisecond)
	c.FixRejected("idle")
	c.Warned(domain.TierWarning)
	c.Nearest(nil, 0)
	c.Overspeed(domain.OverspeedSevere)
	c.IndexError()
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Warned(domain.TierWarning)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `speedcam_warnings_total{tier="WARNING"} 1`) {
		t.Fatalf("metrics body missing warning counter:\n%s", rec.Body.String())
	}
}
