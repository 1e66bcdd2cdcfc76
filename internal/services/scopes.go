package services

// Store scope layout. One JSON document per scope; grouping mirrors the
// subsystem split so documents stay small and hand-editable.
const (
	scopeLicenseKeys    = "license/keys"
	scopeCheckinTotals  = "checkin/totals"
	scopeCheckinStreaks = "checkin/streaks"
	scopeWallets        = "currency/wallets"
	scopeReserves       = "currency/reserves"
)

func scopeAuthz(scopeID string) string {
	return "authz/" + scopeID
}

// scopeCheckinDay holds one calendar day's records plus the day's rank
// counter, so rank assignment and record insertion are a single
// read-modify-write on one scope.
func scopeCheckinDay(day string) string {
	return "checkin/days/" + day
}
