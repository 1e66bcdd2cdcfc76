package dispatch

import (
	"strconv"
	"strings"
)

// Command is a parsed chat intent. Handlers type-switch on the
// concrete command structs below.
type Command interface {
	// Name is the canonical intent label, used in responses and logs.
	Name() string
}

type CheckinCmd struct{}

type BalanceCmd struct{}

type LeaderboardCmd struct{}

type AuthStatusCmd struct{}

// DepositCmd moves liquid funds into reserve. All takes precedence
// over Amount.
type DepositCmd struct {
	Amount int64
	All    bool
}

// WithdrawCmd moves reserved funds back to liquid.
type WithdrawCmd struct {
	Amount int64
	All    bool
}

// RedeemCmd redeems a license key for the speaker's scope.
type RedeemCmd struct {
	Key string
}

func (CheckinCmd) Name() string     { return "checkin" }
func (BalanceCmd) Name() string     { return "balance" }
func (LeaderboardCmd) Name() string { return "leaderboard" }
func (AuthStatusCmd) Name() string  { return "auth_status" }
func (DepositCmd) Name() string     { return "deposit" }
func (WithdrawCmd) Name() string    { return "withdraw" }
func (RedeemCmd) Name() string      { return "redeem" }

// Parse maps one line of chat text to a command. The second return is
// false when the text matches no known intent; unknown text is never
// an error, the caller simply ignores it.
func Parse(text string) (Command, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return nil, false
	}

	switch fields[0] {
	case "checkin", "check-in", "signin", "sign-in":
		return CheckinCmd{}, true

	case "balance", "wallet":
		return BalanceCmd{}, true

	case "leaderboard", "top", "rich":
		return LeaderboardCmd{}, true

	case "status":
		return AuthStatusCmd{}, true

	case "auth":
		if len(fields) == 2 && fields[1] == "status" {
			return AuthStatusCmd{}, true
		}

	case "deposit", "save":
		if len(fields) != 2 {
			return nil, false
		}
		if fields[1] == "all" {
			return DepositCmd{All: true}, true
		}
		if amount, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
			return DepositCmd{Amount: amount}, true
		}

	case "withdraw", "take":
		if len(fields) != 2 {
			return nil, false
		}
		if fields[1] == "all" {
			return WithdrawCmd{All: true}, true
		}
		if amount, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
			return WithdrawCmd{Amount: amount}, true
		}

	case "redeem", "use":
		// Keys are case-sensitive; take them from the original text.
		raw := strings.Fields(strings.TrimSpace(text))
		if len(raw) == 2 {
			return RedeemCmd{Key: raw[1]}, true
		}
	}

	return nil, false
}
