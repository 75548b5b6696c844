package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/geo"
)

type hazardIndex interface {
	QueryNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.HazardPoint, error)
}

type NearestHazard struct {
	Hazard    domain.HazardPoint `json:"hazard"`
	DistanceM float64            `json:"distance_m"`
}

// TrackingState is the only mutable state of a monitoring session. Warned
// maps each alerted hazard to the most severe tier announced for it.
type TrackingState struct {
	Warned  map[int64]domain.Tier
	Nearest *NearestHazard
	LastFix *domain.PositionFix
}

func newTrackingState() TrackingState {
	return TrackingState{Warned: make(map[int64]domain.Tier)}
}

type TrackerSnapshot struct {
	Active    bool                `json:"active"`
	Nearest   *NearestHazard      `json:"nearest,omitempty"`
	WarnedIDs []int64             `json:"warned_ids"`
	LastFix   *domain.PositionFix `json:"last_fix,omitempty"`
}

// Tracker turns position fixes into status and warning events. Ticks are
// serialised by tick; mu guards the session fields and is never held across
// the index query. Stop discards the state, and a tick that was querying the
// index when Stop ran drops its result.
type Tracker struct {
	index hazardIndex
	cfg   domain.EngineConfig

	tick sync.Mutex

	mu      sync.Mutex
	active  bool
	session uint64
	seq     uint64
	state   TrackingState
}

func NewTracker(index hazardIndex, cfg domain.EngineConfig) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tracker config: %w", err)
	}
	return &Tracker{index: index, cfg: cfg, state: newTrackingState()}, nil
}

func (t *Tracker) Config() domain.EngineConfig {
	return t.cfg
}

func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active {
		return
	}
	t.active = true
	t.session++
	t.state = newTrackingState()
}

func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return
	}
	t.active = false
	t.session++
	t.state = newTrackingState()
}

func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// OnFix runs one tick. It is a no-op while stopped. A malformed fix or a
// failed index query leaves the state exactly as it was.
func (t *Tracker) OnFix(ctx context.Context, fix domain.PositionFix) (domain.Outcome, error) {
	t.tick.Lock()
	defer t.tick.Unlock()

	t.mu.Lock()
	active, session := t.active, t.session
	t.mu.Unlock()

	if !active {
		return domain.Outcome{}, nil
	}
	if !fix.Valid() {
		return domain.Outcome{}, fmt.Errorf("%w: lat=%v lon=%v", domain.ErrInvalidFix, fix.Lat, fix.Lon)
	}

	hazards, err := t.index.QueryNearby(ctx, fix.Lat, fix.Lon, t.cfg.SearchRadiusKM)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("query nearby: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || t.session != session {
		return domain.Outcome{}, nil
	}

	next, out := step(t.state, fix, hazards, t.cfg)
	if out.Warning != nil {
		t.seq++
		out.Warning.Seq = t.seq
	}
	t.state = next
	return out, nil
}

func (t *Tracker) Snapshot() TrackerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var warnedIDs []int64
	for id := range t.state.Warned {
		warnedIDs = append(warnedIDs, id)
	}
	slices.Sort(warnedIDs)

	snap := TrackerSnapshot{
		Active:    t.active,
		WarnedIDs: warnedIDs,
	}
	if snap.WarnedIDs == nil {
		snap.WarnedIDs = []int64{}
	}
	if t.state.Nearest != nil {
		n := *t.state.Nearest
		snap.Nearest = &n
	}
	if t.state.LastFix != nil {
		f := *t.state.LastFix
		snap.LastFix = &f
	}
	return snap
}

type rankedHazard struct {
	hazard   domain.HazardPoint
	distance float64
}

// step is the pure transition function. prev is not modified.
func step(prev TrackingState, fix domain.PositionFix, hazards []domain.HazardPoint, cfg domain.EngineConfig) (TrackingState, domain.Outcome) {
	lastFix := fix
	next := TrackingState{
		Warned:  maps.Clone(prev.Warned),
		LastFix: &lastFix,
	}
	if next.Warned == nil {
		next.Warned = make(map[int64]domain.Tier)
	}

	status := &domain.StatusEvent{
		VehicleID:           fix.VehicleID,
		SuggestedIntervalMS: CadenceFor(fix.Speed).Milliseconds(),
		Timestamp:           fix.Timestamp,
	}

	if len(hazards) == 0 {
		clear(next.Warned)
		return next, domain.Outcome{Status: status}
	}

	ranked := make([]rankedHazard, len(hazards))
	nearest := 0
	for i, h := range hazards {
		ranked[i] = rankedHazard{hazard: h, distance: geo.Distance(fix.Lat, fix.Lon, h.Lat, h.Lon)}
		if closer(ranked[i], ranked[nearest]) {
			nearest = i
		}
	}
	best := ranked[nearest]
	next.Nearest = &NearestHazard{Hazard: best.hazard, DistanceM: best.distance}

	hazard, distance := best.hazard, best.distance
	status.Nearest = &hazard
	status.DistanceM = &distance
	status.FormattedDistance = geo.FormatDistance(best.distance)
	status.Label = best.hazard.Label

	out := domain.Outcome{Status: status}

	tier := ClassifyDistance(best.distance, cfg.Thresholds)
	prevTier, warned := next.Warned[best.hazard.ID]
	if tier.Alerting() && (!warned || (cfg.Escalate && tier > prevTier)) {
		out.Warning = newWarning(fix, best, tier)
		next.Warned[best.hazard.ID] = tier
	}

	// Only hazards in the current result are swept; one that left the search
	// radius keeps its entry until it shows up again.
	for _, r := range ranked {
		if r.distance > cfg.ClearanceM {
			delete(next.Warned, r.hazard.ID)
		}
	}

	return next, out
}

func closer(a, b rankedHazard) bool {
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.hazard.ID < b.hazard.ID
}

func newWarning(fix domain.PositionFix, r rankedHazard, tier domain.Tier) *domain.WarningEvent {
	bearing := geo.Bearing(fix.Lat, fix.Lon, r.hazard.Lat, r.hazard.Lon)
	formatted := geo.FormatDistance(r.distance)
	return &domain.WarningEvent{
		VehicleID:         fix.VehicleID,
		Hazard:            r.hazard,
		DistanceM:         r.distance,
		FormattedDistance: formatted,
		Tier:              tier,
		WantsAudio:        tier.WantsAudio(),
		Bearing:           bearing,
		Compass:           geo.ToCompass(bearing),
		Message:           warningMessage(formatted, r.hazard.SpeedLimit),
		Timestamp:         fix.Timestamp,
	}
}

func warningMessage(formatted string, limit int) string {
	if limit <= 0 {
		return fmt.Sprintf("Speed camera %s ahead", formatted)
	}
	return fmt.Sprintf("Speed camera %s ahead, speed limit %d km/h", formatted, limit)
}
