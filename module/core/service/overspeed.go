package service

import (
	"context"
	"sync"

	"github.com/nandanugg/speedcam/module/core/domain"
)

type speedSink interface {
	PublishSpeed(ctx context.Context, s *domain.SpeedStatus) error
}

type overspeedMetrics interface {
	Overspeed(tier domain.OverspeedTier)
}

// OverspeedMonitor classifies samples from the speed feed against the posted
// limit currently in force. It shares no state with the tracker.
type OverspeedMonitor struct {
	sink    speedSink
	metrics overspeedMetrics

	mu    sync.Mutex
	limit int
}

func NewOverspeedMonitor(sink speedSink, metrics overspeedMetrics) *OverspeedMonitor {
	return &OverspeedMonitor{sink: sink, metrics: metrics}
}

// SetLimit replaces the posted limit. Zero clears it.
func (o *OverspeedMonitor) SetLimit(limitKmh int) {
	o.mu.Lock()
	o.limit = limitKmh
	o.mu.Unlock()
}

func (o *OverspeedMonitor) Limit() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.limit
}

func (o *OverspeedMonitor) Observe(ctx context.Context, sample domain.SpeedSample) (*domain.SpeedStatus, error) {
	limit := o.Limit()
	status := &domain.SpeedStatus{
		VehicleID: sample.VehicleID,
		SpeedKmh:  sample.SpeedKmh,
		LimitKmh:  limit,
		Tier:      ClassifyOverspeed(sample.SpeedKmh, limit),
		Timestamp: sample.Timestamp,
	}
	if o.metrics != nil {
		o.metrics.Overspeed(status.Tier)
	}
	if o.sink == nil {
		return status, nil
	}
	if err := o.sink.PublishSpeed(ctx, status); err != nil {
		return status, err
	}
	return status, nil
}
