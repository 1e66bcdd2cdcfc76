package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleIntents(t *testing.T) {
	cases := []struct {
		text string
		want Command
	}{
		{"checkin", CheckinCmd{}},
		{"  CHECK-IN  ", CheckinCmd{}},
		{"balance", BalanceCmd{}},
		{"wallet", BalanceCmd{}},
		{"leaderboard", LeaderboardCmd{}},
		{"top", LeaderboardCmd{}},
		{"status", AuthStatusCmd{}},
		{"auth status", AuthStatusCmd{}},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			cmd, ok := Parse(tc.text)
			require.True(t, ok)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestParseAmountIntents(t *testing.T) {
	cmd, ok := Parse("deposit 500")
	require.True(t, ok)
	assert.Equal(t, DepositCmd{Amount: 500}, cmd)

	cmd, ok = Parse("deposit all")
	require.True(t, ok)
	assert.Equal(t, DepositCmd{All: true}, cmd)

	cmd, ok = Parse("withdraw 25")
	require.True(t, ok)
	assert.Equal(t, WithdrawCmd{Amount: 25}, cmd)

	cmd, ok = Parse("WITHDRAW ALL")
	require.True(t, ok)
	assert.Equal(t, WithdrawCmd{All: true}, cmd)
}

func TestParseRedeemKeepsKeyCase(t *testing.T) {
	cmd, ok := Parse("redeem MK4815161700000000")
	require.True(t, ok)
	assert.Equal(t, RedeemCmd{Key: "MK4815161700000000"}, cmd)
}

func TestParseUnknownText(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"hello there",
		"deposit",
		"deposit lots",
		"withdraw",
		"redeem",
		"redeem two keys here",
		"auth",
	} {
		_, ok := Parse(text)
		assert.False(t, ok, "text %q should not parse", text)
	}
}
