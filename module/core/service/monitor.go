package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nandanugg/speedcam/module/core/domain"
)

type eventSink interface {
	PublishStatus(ctx context.Context, s *domain.StatusEvent) error
	PublishWarning(ctx context.Context, w *domain.WarningEvent) error
}

type limitSetter interface {
	SetLimit(limitKmh int)
}

type tickMetrics interface {
	FixProcessed(d time.Duration)
	FixRejected(reason string)
	Warned(tier domain.Tier)
	Nearest(distanceM *float64, warned int)
}

// Monitor is the long-lived worker that owns a tracker. It consumes fixes in
// arrival order, one at a time, and forwards every outcome to the sink.
type Monitor struct {
	tracker *Tracker
	sink    eventSink
	limits  limitSetter
	metrics tickMetrics
}

func NewMonitor(tracker *Tracker, sink eventSink, limits limitSetter, metrics tickMetrics) *Monitor {
	return &Monitor{tracker: tracker, sink: sink, limits: limits, metrics: metrics}
}

func (m *Monitor) Tracker() *Tracker {
	return m.tracker
}

// Run starts the tracker and processes fixes until ctx is cancelled or the
// channel is closed. The tracker is stopped on return.
func (m *Monitor) Run(ctx context.Context, fixes <-chan domain.PositionFix) error {
	m.tracker.Start()
	defer m.tracker.Stop()

	slog.Info("monitor started", "search_radius_km", m.tracker.Config().SearchRadiusKM)
	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case fix, ok := <-fixes:
			if !ok {
				slog.Info("position feed closed")
				return nil
			}
			m.Handle(ctx, fix)
		}
	}
}

func (m *Monitor) Handle(ctx context.Context, fix domain.PositionFix) {
	start := time.Now()
	out, err := m.tracker.OnFix(ctx, fix)
	if err != nil {
		reason := "index"
		if errors.Is(err, domain.ErrInvalidFix) {
			reason = "invalid"
		}
		if m.metrics != nil {
			m.metrics.FixRejected(reason)
		}
		slog.Warn("fix skipped", "err", err, "vehicle_id", fix.VehicleID)
		return
	}
	if out.Status == nil {
		if m.metrics != nil {
			m.metrics.FixRejected("idle")
		}
		return
	}

	if m.metrics != nil {
		m.metrics.FixProcessed(time.Since(start))
		m.metrics.Nearest(out.Status.DistanceM, len(m.tracker.Snapshot().WarnedIDs))
	}

	if m.limits != nil {
		limit := 0
		if out.Status.Nearest != nil {
			limit = out.Status.Nearest.SpeedLimit
		}
		m.limits.SetLimit(limit)
	}

	if err := m.sink.PublishStatus(ctx, out.Status); err != nil {
		slog.Error("publish status", "err", err)
	}

	if out.Warning == nil {
		return
	}
	w := out.Warning
	slog.Info("hazard warning",
		"seq", w.Seq, "hazard_id", w.Hazard.ID, "tier", w.Tier.String(),
		"distance", w.FormattedDistance, "compass", w.Compass, "audio", w.WantsAudio)
	if m.metrics != nil {
		m.metrics.Warned(w.Tier)
	}
	if err := m.sink.PublishWarning(ctx, w); err != nil {
		slog.Error("publish warning", "err", err, "seq", w.Seq)
	}
}
