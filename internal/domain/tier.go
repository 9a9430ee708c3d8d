package domain

// GuestTier classifies a guest for the purpose of the maximum permitted hold amount.
type GuestTier string

const (
	TierNewGuest        GuestTier = "NEW_GUEST"
	TierVerifiedGuest   GuestTier = "VERIFIED_GUEST"
	TierPremiumProperty GuestTier = "PREMIUM_PROPERTY"
)

// Tiered hold limits in minor units.
var tierLimits = map[GuestTier]int64{
	TierNewGuest:        250000,  // $2,500
	TierVerifiedGuest:   500000,  // $5,000
	TierPremiumProperty: 1000000, // $10,000
}

var tierLimitsDisplay = map[GuestTier]string{
	TierNewGuest:        "$2,500",
	TierVerifiedGuest:   "$5,000",
	TierPremiumProperty: "$10,000",
}

// ResolveTier maps a raw metadata value to a known tier. Unknown or empty
// values fall back to the lowest tier.
func ResolveTier(raw string) GuestTier {
	t := GuestTier(raw)
	if _, ok := tierLimits[t]; !ok {
		return TierNewGuest
	}
	return t
}

// Limit returns the maximum hold amount for the tier in minor units.
func (t GuestTier) Limit() int64 {
	if limit, ok := tierLimits[t]; ok {
		return limit
	}
	return tierLimits[TierNewGuest]
}

// LimitDisplay returns the tier limit formatted for error details.
func (t GuestTier) LimitDisplay() string {
	if s, ok := tierLimitsDisplay[t]; ok {
		return s
	}
	return tierLimitsDisplay[TierNewGuest]
}
