package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/geo"
)

// Nearby returns the hazards within radiusKm of the point, nearest first.
// Unlike QueryNearby it never fails open.
func (i *HazardIndex) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyHazard, error) {
	points, err := i.repo.QueryNearby(ctx, lat, lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return RankByDistance(lat, lon, radiusKm, points), nil
}

// RankByDistance drops the bounding-box false positives and orders the rest
// by great-circle distance, ties broken by id.
func RankByDistance(lat, lon, radiusKm float64, points []domain.HazardPoint) []domain.NearbyHazard {
	limit := radiusKm * 1000
	out := make([]domain.NearbyHazard, 0, len(points))
	for _, p := range points {
		d := geo.Distance(lat, lon, p.Lat, p.Lon)
		if d > limit {
			continue
		}
		b := geo.Bearing(lat, lon, p.Lat, p.Lon)
		out = append(out, domain.NearbyHazard{
			HazardPoint:       p,
			DistanceM:         d,
			FormattedDistance: geo.FormatDistance(d),
			Bearing:           b,
			Compass:           geo.ToCompass(b),
		})
	}
	slices.SortFunc(out, func(a, b domain.NearbyHazard) int {
		if c := cmp.Compare(a.DistanceM, b.DistanceM); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
