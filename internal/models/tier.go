package models

import "fmt"

// Tier is a named duration class for license keys.
type Tier string

const (
	TierDay      Tier = "day"
	TierWeek     Tier = "week"
	TierMonth    Tier = "month"
	TierHalfYear Tier = "half_year"
	TierYear     Tier = "year"
	TierLifetime Tier = "lifetime"
)

// tierDurations is the tier → duration table in seconds.
var tierDurations = map[Tier]int64{
	TierDay:      86400,
	TierWeek:     604800,
	TierMonth:    2678400,
	TierHalfYear: 15724800,
	TierYear:     31622400,
	TierLifetime: 311040000,
}

// Tiers lists all tiers in ascending duration order.
func Tiers() []Tier {
	return []Tier{TierDay, TierWeek, TierMonth, TierHalfYear, TierYear, TierLifetime}
}

// DurationSeconds returns the authorization duration this tier grants.
func (t Tier) DurationSeconds() int64 {
	return tierDurations[t]
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierDurations[t]
	return ok
}

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}
