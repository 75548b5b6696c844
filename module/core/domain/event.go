package domain

import "time"

type EventType string

const (
	EventWarning EventType = "warning"
	EventStatus  EventType = "status"
	EventSpeed   EventType = "speed"
)

// StatusEvent is produced for every processed fix. Nearest is nil when no
// hazard is within the search radius.
type StatusEvent struct {
	VehicleID           string       `json:"vehicle_id,omitempty"`
	Nearest             *HazardPoint `json:"nearest,omitempty"`
	DistanceM           *float64     `json:"distance_m,omitempty"`
	FormattedDistance   string       `json:"formatted_distance,omitempty"`
	Label               string       `json:"label,omitempty"`
	SuggestedIntervalMS int64        `json:"suggested_interval_ms"`
	Timestamp           time.Time    `json:"timestamp"`
}

type WarningEvent struct {
	Seq               uint64      `json:"seq"`
	VehicleID         string      `json:"vehicle_id,omitempty"`
	Hazard            HazardPoint `json:"hazard"`
	DistanceM         float64     `json:"distance_m"`
	FormattedDistance string      `json:"formatted_distance"`
	Tier              Tier        `json:"tier"`
	WantsAudio        bool        `json:"wants_audio"`
	Bearing           float64     `json:"bearing"`
	Compass           string      `json:"compass"`
	Message           string      `json:"message"`
	Timestamp         time.Time   `json:"timestamp"`
}

type SpeedStatus struct {
	VehicleID string        `json:"vehicle_id,omitempty"`
	SpeedKmh  float64       `json:"speed_kmh"`
	LimitKmh  int           `json:"limit_kmh,omitempty"`
	Tier      OverspeedTier `json:"tier"`
	Timestamp time.Time     `json:"timestamp"`
}

// Outcome is everything one tick of the tracker produced. Status is nil only
// when the tick was skipped.
type Outcome struct {
	Status  *StatusEvent
	Warning *WarningEvent
}
