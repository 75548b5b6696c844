package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/internal/repository/database"
)

type indexMetrics interface {
	IndexError()
}

// HazardIndex answers radius queries against the point store. With failOpen
// set, a store error is logged and reported as an empty result.
type HazardIndex struct {
	repo     database.HazardRepository
	failOpen bool
	metrics  indexMetrics
}

func NewHazardIndex(repo database.HazardRepository, failOpen bool, metrics indexMetrics) *HazardIndex {
	return &HazardIndex{repo: repo, failOpen: failOpen, metrics: metrics}
}

func (i *HazardIndex) QueryNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.HazardPoint, error) {
	points, err := i.repo.QueryNearby(ctx, lat, lon, radiusKm)
	if err == nil {
		return points, nil
	}
	if i.metrics != nil {
		i.metrics.IndexError()
	}
	if i.failOpen {
		slog.Warn("hazard index unavailable, treating as empty", "err", err, "lat", lat, "lon", lon)
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
}

func (i *HazardIndex) Stats(ctx context.Context) (*domain.HazardStats, error) {
	total, err := i.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count hazards: %w", err)
	}
	byLimit, err := i.repo.CountByLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by limit: %w", err)
	}
	return &domain.HazardStats{Total: total, ByLimit: byLimit}, nil
}
