package models

// Grant is the stored authorization window for one scope. A grant is
// never physically removed; revocation zeroes both fields.
type Grant struct {
	GrantedAt       int64 `json:"granted_at"`
	DurationSeconds int64 `json:"duration_seconds"`
}

// ActiveAt reports whether the grant covers the instant now.
func (g Grant) ActiveAt(now int64) bool {
	return g.GrantedAt != 0 && g.DurationSeconds != 0 &&
		now-g.GrantedAt <= g.DurationSeconds
}

// ExpiryEpoch is the anchored expiry instant: granted_at plus the total
// accumulated duration. All displayed expiry values derive from this.
func (g Grant) ExpiryEpoch() int64 {
	return g.GrantedAt + g.DurationSeconds
}

// RemainingAt returns the seconds of authorization left at now, zero
// when expired.
func (g Grant) RemainingAt(now int64) int64 {
	if !g.ActiveAt(now) {
		return 0
	}
	return g.ExpiryEpoch() - now
}

// LicenseKey is one unconsumed redemption key in the registry. The key
// id itself is the registry map key.
type LicenseKey struct {
	Tier            Tier  `json:"tier"`
	DurationSeconds int64 `json:"duration_seconds"`
}

// CheckinRecord is a user's check-in for one calendar day.
type CheckinRecord struct {
	Rank      int   `json:"rank"`
	Reward    int64 `json:"reward"`
	Timestamp int64 `json:"timestamp"`
}

// StreakState tracks check-in continuity for one user.
type StreakState struct {
	LastCheckinEpoch int64 `json:"last_checkin_epoch"`
	Count            int64 `json:"count"`
}

// Wallet is a user's liquid balance. Seq is assigned once at creation
// and orders leaderboard ties (earlier wallets rank first).
type Wallet struct {
	Balance int64 `json:"balance"`
	Seq     int64 `json:"seq"`
}

// Reserve is the interest-bearing bank balance. DepositEpoch anchors
// the interest clock and is meaningful only while Reserved > 0.
type Reserve struct {
	Reserved     int64 `json:"reserved"`
	DepositEpoch int64 `json:"deposit_epoch"`
}
