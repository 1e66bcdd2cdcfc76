package services

import (
	"strings"
	"testing"

	"github.com/go-mkbot/mkcore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCountBounds(t *testing.T) {
	e := newTestEngine(t)

	for _, count := range []int{0, -1, 101} {
		_, err := e.license.Issue(models.TierDay, count, "owner")
		assert.ErrorIs(t, err, ErrInvalidAmount, "count=%d", count)
	}

	report, err := e.license.Issue(models.TierDay, 100, "owner")
	require.NoError(t, err)
	assert.Len(t, report.Keys, 100)
}

func TestIssueUnknownTier(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.license.Issue(models.Tier("decade"), 1, "owner")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestIssueKeyShape(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.license.Issue(models.TierWeek, 5, "owner")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, id := range report.Keys {
		assert.True(t, strings.HasPrefix(id, "MK"))
		assert.False(t, seen[id], "duplicate key id %s", id)
		seen[id] = true
	}
	assert.Equal(t, int64(604800), report.DurationSeconds)
}

func TestTierDurations(t *testing.T) {
	want := map[models.Tier]int64{
		models.TierDay:      86400,
		models.TierWeek:     604800,
		models.TierMonth:    2678400,
		models.TierHalfYear: 15724800,
		models.TierYear:     31622400,
		models.TierLifetime: 311040000,
	}
	for tier, duration := range want {
		assert.Equal(t, duration, tier.DurationSeconds(), "tier %s", tier)
	}
}

func TestRedeemGrantsAndConsumes(t *testing.T) {
	e := newTestEngine(t)

	issued, err := e.license.Issue(models.TierMonth, 1, "owner")
	require.NoError(t, err)
	keyID := issued.Keys[0]

	report, err := e.license.Redeem(keyID, "group-9", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierMonth, report.Tier)
	assert.Equal(t, GrantModeReset, report.Grant.Mode)
	assert.Equal(t, int64(2678400), report.Grant.DurationSeconds)
	assert.Equal(t, StatusActive, e.authz.Status("group-9"))

	// Exactly-once: the second redemption must fail without touching
	// the scope's grant.
	before := e.authz.Describe("group-9")
	_, err = e.license.Redeem(keyID, "group-9", "user-1")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, before, e.authz.Describe("group-9"))
}

func TestRedeemUnknownKeyChangesNothing(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.license.Redeem("MK000000", "group-9", "user-1")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, StatusExpired, e.authz.Status("group-9"))
	assert.Zero(t, e.license.List().Total)
}

func TestRedeemExtendsActiveWindow(t *testing.T) {
	e := newTestEngine(t)

	issued, err := e.license.Issue(models.TierDay, 2, "owner")
	require.NoError(t, err)

	_, err = e.license.Redeem(issued.Keys[0], "group-9", "user-1")
	require.NoError(t, err)

	e.clock.Advance(1000)
	report, err := e.license.Redeem(issued.Keys[1], "group-9", "user-1")
	require.NoError(t, err)

	assert.Equal(t, GrantModeExtend, report.Grant.Mode)
	assert.Equal(t, testEpoch, report.Grant.GrantedAt)
	assert.Equal(t, int64(2*86400), report.Grant.DurationSeconds)
}

func TestListGroupsByTier(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.license.Issue(models.TierDay, 3, "owner")
	require.NoError(t, err)
	_, err = e.license.Issue(models.TierLifetime, 2, "owner")
	require.NoError(t, err)

	report := e.license.List()
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 3, report.CountsByTier[models.TierDay])
	assert.Equal(t, 2, report.CountsByTier[models.TierLifetime])
}

func TestRedeemShrinksListByOne(t *testing.T) {
	e := newTestEngine(t)

	issued, err := e.license.Issue(models.TierDay, 4, "owner")
	require.NoError(t, err)

	_, err = e.license.Redeem(issued.Keys[2], "group-1", "user-1")
	require.NoError(t, err)

	report := e.license.List()
	assert.Equal(t, 3, report.Total)
	for _, k := range report.Keys {
		assert.NotEqual(t, issued.Keys[2], k.KeyID)
	}
}

func TestRevokeKey(t *testing.T) {
	e := newTestEngine(t)

	issued, err := e.license.Issue(models.TierDay, 1, "owner")
	require.NoError(t, err)

	require.NoError(t, e.license.Revoke(issued.Keys[0], "owner"))
	assert.ErrorIs(t, e.license.Revoke(issued.Keys[0], "owner"), ErrInvalidKey)
	assert.Zero(t, e.license.List().Total)
}

func TestClearKeys(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.license.Issue(models.TierDay, 7, "owner")
	require.NoError(t, err)

	removed, err := e.license.Clear("owner")
	require.NoError(t, err)
	assert.Equal(t, 7, removed)
	assert.Zero(t, e.license.List().Total)
}
