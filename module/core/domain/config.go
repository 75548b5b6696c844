package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidThresholds = errors.New("invalid warning thresholds")
	ErrIndexUnavailable  = errors.New("hazard index unavailable")
)

const (
	DefaultSearchRadiusKM = 2.0
	DefaultCriticalM      = 300.0
	DefaultWarningM       = 500.0
	DefaultNoticeM        = 1000.0
	DefaultClearanceM     = 1500.0
)

// Thresholds are the inclusive upper bounds of each distance tier.
type Thresholds struct {
	CriticalM float64 `json:"critical_m" yaml:"critical_m"`
	WarningM  float64 `json:"warning_m" yaml:"warning_m"`
	NoticeM   float64 `json:"notice_m" yaml:"notice_m"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalM: DefaultCriticalM,
		WarningM:  DefaultWarningM,
		NoticeM:   DefaultNoticeM,
	}
}

func (t Thresholds) Validate() error {
	if !(t.CriticalM > 0 && t.CriticalM < t.WarningM && t.WarningM < t.NoticeM) {
		return fmt.Errorf("%w: need 0 < critical (%g) < warning (%g) < notice (%g)",
			ErrInvalidThresholds, t.CriticalM, t.WarningM, t.NoticeM)
	}
	return nil
}

type EngineConfig struct {
	SearchRadiusKM float64    `json:"search_radius_km" yaml:"search_radius_km"`
	Thresholds     Thresholds `json:"thresholds" yaml:"thresholds"`
	ClearanceM     float64    `json:"clearance_m" yaml:"clearance_m"`
	// Escalate re-fires a warned hazard when it moves into a more severe tier.
	Escalate bool `json:"escalate" yaml:"escalate"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SearchRadiusKM: DefaultSearchRadiusKM,
		Thresholds:     DefaultThresholds(),
		ClearanceM:     DefaultClearanceM,
		Escalate:       true,
	}
}

func (c EngineConfig) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if !(c.Thresholds.NoticeM < c.ClearanceM) {
		return fmt.Errorf("%w: need notice (%g) < clearance (%g)",
			ErrInvalidThresholds, c.Thresholds.NoticeM, c.ClearanceM)
	}
	if !(c.SearchRadiusKM > 0) {
		return fmt.Errorf("%w: search radius must be positive, got %g", ErrInvalidThresholds, c.SearchRadiusKM)
	}
	return nil
}
