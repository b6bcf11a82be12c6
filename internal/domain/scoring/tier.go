package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is the discrete risk category derived from the probability.
type Tier string

// Risk tiers.
const (
	TierLow      Tier = "LOW"
	TierModerate Tier = "MODERATE"
	TierHigh     Tier = "HIGH"
)

// Tier thresholds; each is the inclusive lower bound of its tier.
const (
	ModerateThreshold = 0.2
	HighThreshold     = 0.4
)

// SevereThreshold is the classification cut-off of the binary severe-burnout
// label. It is kept apart from the tier thresholds even though both are 0.2.
const SevereThreshold = 0.2

// ErrUnknownTier is returned by ParseTier for unrecognised names.
var ErrUnknownTier = errors.New("unknown tier")

// TierFor classifies a probability.
func TierFor(p float64) Tier {
	switch {
	case p >= HighThreshold:
		return TierHigh
	case p >= ModerateThreshold:
		return TierModerate
	default:
		return TierLow
	}
}

// Tiers lists all tiers from lowest to highest.
func Tiers() []Tier {
	return []Tier{TierLow, TierModerate, TierHigh}
}

// ParseTier resolves a case-insensitive tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TierLow, TierModerate, TierHigh:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Lower returns the lowercase tier name used in metric labels.
func (t Tier) Lower() string {
	return strings.ToLower(string(t))
}
