package domain

import "fmt"

type Tier int

const (
	TierSafe Tier = iota
	TierNotice
	TierWarning
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "CRITICAL"
	case TierWarning:
		return "WARNING"
	case TierNotice:
		return "NOTICE"
	default:
		return "SAFE"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "CRITICAL":
		*t = TierCritical
	case "WARNING":
		*t = TierWarning
	case "NOTICE":
		*t = TierNotice
	case "SAFE":
		*t = TierSafe
	default:
		return fmt.Errorf("unknown tier %q", b)
	}
	return nil
}

// Alerting reports whether a hazard at this tier should produce a warning.
func (t Tier) Alerting() bool {
	return t != TierSafe
}

// WantsAudio reports whether a warning at this tier is spoken. NOTICE is
// visual only.
func (t Tier) WantsAudio() bool {
	return t == TierCritical || t == TierWarning
}

type OverspeedTier int

const (
	OverspeedNone OverspeedTier = iota
	OverspeedMild
	OverspeedModerate
	OverspeedSevere
)

func (t OverspeedTier) String() string {
	switch t {
	case OverspeedMild:
		return "MILD"
	case OverspeedModerate:
		return "MODERATE"
	case OverspeedSevere:
		return "SEVERE"
	default:
		return "NONE"
	}
}

func (t OverspeedTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *OverspeedTier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "NONE":
		*t = OverspeedNone
	case "MILD":
		*t = OverspeedMild
	case "MODERATE":
		*t = OverspeedModerate
	case "SEVERE":
		*t = OverspeedSevere
	default:
		return fmt.Errorf("unknown overspeed tier %q", b)
	}
	return nil
}
