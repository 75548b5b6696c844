package domain

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidFix = errors.New("invalid position fix")

// PositionFix is one sample from the position source. Speed and Heading are
// nil when the source does not report them.
type PositionFix struct {
	VehicleID string    `json:"vehicle_id"`
	Lat       float64   `json:"latitude"`
	Lon       float64   `json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (f PositionFix) Valid() bool {
	if math.IsNaN(f.Lat) || math.IsInf(f.Lat, 0) {
		return false
	}
	if math.IsNaN(f.Lon) || math.IsInf(f.Lon, 0) {
		return false
	}
	if f.Speed != nil && (math.IsNaN(*f.Speed) || math.IsInf(*f.Speed, 0)) {
		return false
	}
	return true
}

type SpeedSample struct {
	VehicleID string    `json:"vehicle_id"`
	SpeedKmh  float64   `json:"speed"`
	Timestamp time.Time `json:"timestamp"`
}
