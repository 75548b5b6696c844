package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/service"
)

type mockTracker struct {
	active bool
	starts int
	stops  int
}

func (m *mockTracker) Start() { m.active = true; m.starts++ }
func (m *mockTracker) Stop()  { m.active = false; m.stops++ }

func (m *mockTracker) Snapshot() service.TrackerSnapshot {
	return service.TrackerSnapshot{Active: m.active, WarnedIDs: []int64{}}
}

type mockHazardQuery struct {
	nearbyFn func(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyHazard, error)
	statsFn  func(ctx context.Context) (*domain.HazardStats, error)
}

func (m *mockHazardQuery) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyHazard, error) {
	return m.nearbyFn(ctx, lat, lon, radiusKm)
}

func (m *mockHazardQuery) Stats(ctx context.Context) (*domain.HazardStats, error) {
	return m.statsFn(ctx)
}

func setupRouter(tracker trackerControl, hazards hazardQuery) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTrackerHandler(tracker, hazards, 2.0)
	h.Register(r.Group(""))
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestTrackerStartStop(t *testing.T) {
	tr := &mockTracker{}
	r := setupRouter(tr, &mockHazardQuery{})

	w := serve(r, "POST", "/tracker/start")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var snap service.TrackerSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !snap.Active {
		t.Error("expected active after start")
	}

	w = serve(r, "POST", "/tracker/stop")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if tr.starts != 1 || tr.stops != 1 {
		t.Errorf("expected one start and one stop, got %d/%d", tr.starts, tr.stops)
	}
}

func TestTrackerStatus_EmptyWarnedIsArray(t *testing.T) {
	r := setupRouter(&mockTracker{}, &mockHazardQuery{})

	w := serve(r, "GET", "/tracker/status")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(raw["warned_ids"]) != "[]" {
		t.Errorf("expected warned_ids [], got %s", raw["warned_ids"])
	}
}

func TestNearby_Success(t *testing.T) {
	hq := &mockHazardQuery{
		nearbyFn: func(_ context.Context, lat, lon, radiusKm float64) ([]domain.NearbyHazard, error) {
			if lat != 25.033 || lon != 121.5654 {
				t.Fatalf("unexpected point: %f,%f", lat, lon)
			}
			if radiusKm != 2.0 {
				t.Fatalf("expected default radius 2.0, got %f", radiusKm)
			}
			return []domain.NearbyHazard{
				{HazardPoint: domain.HazardPoint{ID: 42, SpeedLimit: 60}, DistanceM: 400, FormattedDistance: "400m", Compass: "N"},
			}, nil
		},
	}

	r := setupRouter(&mockTracker{}, hq)
	w := serve(r, "GET", "/hazards/nearby?lat=25.033&lon=121.5654")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp []domain.NearbyHazard
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 hazard, got %d", len(resp))
	}
	if resp[0].ID != 42 || resp[0].FormattedDistance != "400m" {
		t.Errorf("unexpected hazard: %+v", resp[0])
	}
}

func TestNearby_CustomRadius(t *testing.T) {
	var got float64
	hq := &mockHazardQuery{
		nearbyFn: func(_ context.Context, _, _, radiusKm float64) ([]domain.NearbyHazard, error) {
			got = radiusKm
			return nil, nil
		},
	}

	r := setupRouter(&mockTracker{}, hq)
	w := serve(r, "GET", "/hazards/nearby?lat=25&lon=121&radius_km=0.5")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != 0.5 {
		t.Errorf("expected radius 0.5, got %f", got)
	}
}

func TestNearby_BadRequest(t *testing.T) {
	r := setupRouter(&mockTracker{}, &mockHazardQuery{})

	tests := []struct {
		name string
		path string
	}{
		{"missing lat", "/hazards/nearby?lon=121"},
		{"invalid lon", "/hazards/nearby?lat=25&lon=abc"},
		{"out of range", "/hazards/nearby?lat=95&lon=121"},
		{"zero radius", "/hazards/nearby?lat=25&lon=121&radius_km=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, "GET", tt.path)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestNearby_IndexUnavailable(t *testing.T) {
	hq := &mockHazardQuery{
		nearbyFn: func(_ context.Context, _, _, _ float64) ([]domain.NearbyHazard, error) {
			return nil, domain.ErrIndexUnavailable
		},
	}

	r := setupRouter(&mockTracker{}, hq)
	w := serve(r, "GET", "/hazards/nearby?lat=25&lon=121")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestStats_Success(t *testing.T) {
	hq := &mockHazardQuery{
		statsFn: func(_ context.Context) (*domain.HazardStats, error) {
			return &domain.HazardStats{Total: 3, ByLimit: []domain.LimitCount{{SpeedLimit: 50, Count: 2}, {SpeedLimit: 70, Count: 1}}}, nil
		},
	}

	r := setupRouter(&mockTracker{}, hq)
	w := serve(r, "GET", "/hazards/stats")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp domain.HazardStats
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 3 || len(resp.ByLimit) != 2 {
		t.Errorf("unexpected stats: %+v", resp)
	}
}

func TestStats_Error(t *testing.T) {
	hq := &mockHazardQuery{
		statsFn: func(_ context.Context) (*domain.HazardStats, error) {
			return nil, errors.New("db error")
		},
	}

	r := setupRouter(&mockTracker{}, hq)
	w := serve(r, "GET", "/hazards/stats")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestOverspeed(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode int
		wantTier domain.OverspeedTier
	}{
		{"under limit", "/overspeed?speed=55&limit=60", http.StatusOK, domain.OverspeedNone},
		{"mild", "/overspeed?speed=65&limit=60", http.StatusOK, domain.OverspeedMild},
		{"moderate", "/overspeed?speed=80&limit=60", http.StatusOK, domain.OverspeedModerate},
		{"severe", "/overspeed?speed=81&limit=60", http.StatusOK, domain.OverspeedSevere},
		{"invalid speed", "/overspeed?speed=fast&limit=60", http.StatusBadRequest, domain.OverspeedNone},
		{"missing limit", "/overspeed?speed=50", http.StatusBadRequest, domain.OverspeedNone},
	}

	r := setupRouter(&mockTracker{}, &mockHazardQuery{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, "GET", tt.path)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp overspeedResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Tier != tt.wantTier {
				t.Errorf("expected %s, got %s", tt.wantTier, resp.Tier)
			}
		})
	}
}
