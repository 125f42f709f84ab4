package valueobject

import (
	"errors"
)

var (
	ErrInvalidAdRemovalTier = errors.New("invalid ad removal tier")
	ErrInvalidPremiumType   = errors.New("invalid premium type")
)

// AdRemovalTier is the one-time ad removal purchase held by an account
type AdRemovalTier string

const (
	AdRemovalNone     AdRemovalTier = "none"
	AdRemovalBasic    AdRemovalTier = "basic"
	AdRemovalComplete AdRemovalTier = "complete"
)

// NewAdRemovalTier parses a tier; the empty string maps to AdRemovalNone
func NewAdRemovalTier(tier string) (AdRemovalTier, error) {
	t := AdRemovalTier(tier)
	switch t {
	case "":
		return AdRemovalNone, nil
	case AdRemovalNone, AdRemovalBasic, AdRemovalComplete:
		return t, nil
	default:
		return "", ErrInvalidAdRemovalTier
	}
}

func (t AdRemovalTier) String() string {
	return string(t)
}

// SuppressesBanners is true for basic and complete
func (t AdRemovalTier) SuppressesBanners() bool {
	return t == AdRemovalBasic || t == AdRemovalComplete
}

// SuppressesInterstitials is true only for complete
func (t AdRemovalTier) SuppressesInterstitials() bool {
	return t == AdRemovalComplete
}

// PremiumType is the premium billing cadence; empty when not premium
type PremiumType string

const (
	PremiumNone    PremiumType = ""
	PremiumMonthly PremiumType = "monthly"
	PremiumAnnual  PremiumType = "annual"
)

// NewPremiumType creates a new PremiumType value object
func NewPremiumType(premiumType string) (PremiumType, error) {
	pt := PremiumType(premiumType)
	switch pt {
	case PremiumNone, PremiumMonthly, PremiumAnnual:
		return pt, nil
	default:
		return "", ErrInvalidPremiumType
	}
}

func (p PremiumType) String() string {
	return string(p)
}
