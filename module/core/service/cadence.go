package service

import "time"

const (
	CadenceFast   = 2 * time.Second
	CadenceNormal = 5 * time.Second
	CadenceSlow   = 10 * time.Second

	slowSpeedKmh   = 10.0
	normalSpeedKmh = 40.0
)

// CadenceFor suggests how often the position source should report at the
// given speed. An unknown speed gets the normal cadence.
func CadenceFor(speedKmh *float64) time.Duration {
	if speedKmh == nil {
		return CadenceNormal
	}
	switch {
	case *speedKmh < slowSpeedKmh:
		return CadenceSlow
	case *speedKmh < normalSpeedKmh:
		return CadenceNormal
	default:
		return CadenceFast
	}
}
