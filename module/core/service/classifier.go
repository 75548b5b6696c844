package service

import (
	"math"

	"github.com/nandanugg/speedcam/module/core/domain"
)

// ClassifyDistance buckets a distance into a tier. Each cut point is the
// inclusive upper edge of its tier.
func ClassifyDistance(meters float64, t domain.Thresholds) domain.Tier {
	switch {
	case meters <= t.CriticalM:
		return domain.TierCritical
	case meters <= t.WarningM:
		return domain.TierWarning
	case meters <= t.NoticeM:
		return domain.TierNotice
	default:
		return domain.TierSafe
	}
}

const (
	mildOverspeedKmh     = 10
	moderateOverspeedKmh = 20
)

// ClassifyOverspeed compares the current speed against the posted limit. A
// limit of zero or less means no limit is known.
func ClassifyOverspeed(speedKmh float64, limitKmh int) domain.OverspeedTier {
	if limitKmh <= 0 || math.IsNaN(speedKmh) {
		return domain.OverspeedNone
	}
	delta := int(math.Round(speedKmh)) - limitKmh
	switch {
	case delta <= 0:
		return domain.OverspeedNone
	case delta <= mildOverspeedKmh:
		return domain.OverspeedMild
	case delta <= moderateOverspeedKmh:
		return domain.OverspeedModerate
	default:
		return domain.OverspeedSevere
	}
}
