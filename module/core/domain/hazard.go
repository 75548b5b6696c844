package domain

type HazardPoint struct {
	ID         int64   `json:"id" yaml:"id"`
	Lat        float64 `json:"latitude" yaml:"latitude"`
	Lon        float64 `json:"longitude" yaml:"longitude"`
	SpeedLimit int     `json:"speed_limit" yaml:"speed_limit"`
	Label      string  `json:"label" yaml:"label"`
	Direction  string  `json:"direction" yaml:"direction"`
	City       string  `json:"city,omitempty" yaml:"city"`
	Region     string  `json:"region,omitempty" yaml:"region"`
}

type LimitCount struct {
	SpeedLimit int `json:"speed_limit"`
	Count      int `json:"count"`
}

type HazardStats struct {
	Total   int          `json:"total"`
	ByLimit []LimitCount `json:"by_limit"`
}

// NearbyHazard is a hazard annotated relative to a query point.
type NearbyHazard struct {
	HazardPoint
	DistanceM         float64 `json:"distance_m"`
	FormattedDistance string  `json:"formatted_distance"`
	Bearing           float64 `json:"bearing"`
	Compass           string  `json:"compass"`
}
