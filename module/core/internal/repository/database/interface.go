package database

import (
	"context"

	"github.com/nandanugg/speedcam/module/core/domain"
)

// HazardRepository is the point store. QueryNearby may return points
// slightly outside radiusKm; callers re-rank by true distance.
type HazardRepository interface {
	Migrate(ctx context.Context) error
	QueryNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.HazardPoint, error)
	Upsert(ctx context.Context, points []domain.HazardPoint) error
	Count(ctx context.Context) (int, error)
	CountByLimit(ctx context.Context) ([]domain.LimitCount, error)
}
