package services

import (
	"testing"

	"github.com/go-mkbot/mkcore/internal/clock"
	"github.com/go-mkbot/mkcore/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEpoch = int64(1700000000)

type testEngine struct {
	clock    *clock.Fake
	store    *store.MemoryStore
	authz    *AuthorizationService
	license  *LicenseService
	currency *CurrencyService
	checkin  *CheckinService
}

// newTestEngine wires the full engine against a memory store and a fake
// clock pinned at testEpoch. Auditing is off (nil service).
func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	c := clock.NewFake(testEpoch)
	s := store.NewMemoryStore()
	authz := NewAuthorizationService(s, c, nil)
	currency := NewCurrencyService(s, c)
	return &testEngine{
		clock:    c,
		store:    s,
		authz:    authz,
		license:  NewLicenseService(authz, s, c, nil),
		currency: currency,
		checkin:  NewCheckinService(s, c, currency),
	}
}

func TestStatusNeverGranted(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, StatusExpired, e.authz.Status("group-1"))
}

func TestGrantResetOnFirstGrant(t *testing.T) {
	e := newTestEngine(t)

	report, err := e.authz.Grant("group-1", 86400)
	require.NoError(t, err)

	assert.Equal(t, GrantModeReset, report.Mode)
	assert.Equal(t, testEpoch, report.GrantedAt)
	assert.Equal(t, int64(86400), report.DurationSeconds)
	assert.Equal(t, testEpoch+86400, report.ExpiryEpoch)
	assert.Equal(t, StatusActive, e.authz.Status("group-1"))
}

func TestGrantExtendKeepsAnchor(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.authz.Grant("group-1", 86400)
	require.NoError(t, err)

	// Half a day later the window is still active; a second grant must
	// extend from the original anchor, not from now.
	e.clock.Advance(43200)
	report, err := e.authz.Grant("group-1", 604800)
	require.NoError(t, err)

	assert.Equal(t, GrantModeExtend, report.Mode)
	assert.Equal(t, testEpoch, report.GrantedAt)
	assert.Equal(t, int64(86400+604800), report.DurationSeconds)
	assert.Equal(t, testEpoch+86400+604800, report.ExpiryEpoch)
}

func TestGrantAssociativity(t *testing.T) {
	e := newTestEngine(t)

	// Granting d1..dn back to back without lapsing yields
	// expiry = first granted_at + sum(di) regardless of grouping.
	durations := []int64{86400, 604800, 3600, 2678400}
	var sum int64
	var last *GrantReport
	for _, d := range durations {
		sum += d
		var err error
		last, err = e.authz.Grant("group-1", d)
		require.NoError(t, err)
		e.clock.Advance(600)
	}

	assert.Equal(t, testEpoch, last.GrantedAt)
	assert.Equal(t, sum, last.DurationSeconds)
	assert.Equal(t, testEpoch+sum, last.ExpiryEpoch)
}

func TestGrantResetAfterExpiry(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.authz.Grant("group-1", 3600)
	require.NoError(t, err)

	// One second past the window: the old remainder is discarded.
	e.clock.Advance(3601)
	assert.Equal(t, StatusExpired, e.authz.Status("group-1"))

	report, err := e.authz.Grant("group-1", 7200)
	require.NoError(t, err)
	assert.Equal(t, GrantModeReset, report.Mode)
	assert.Equal(t, testEpoch+3601, report.GrantedAt)
	assert.Equal(t, int64(7200), report.DurationSeconds)
}

func TestStatusExactBoundary(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.authz.Grant("group-1", 3600)
	require.NoError(t, err)

	// now - granted_at == duration is still active.
	e.clock.Advance(3600)
	assert.Equal(t, StatusActive, e.authz.Status("group-1"))

	e.clock.Advance(1)
	assert.Equal(t, StatusExpired, e.authz.Status("group-1"))
}

func TestGrantRejectsNonPositiveDuration(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.authz.Grant("group-1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = e.authz.Grant("group-1", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRevokeZeroesGrant(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.authz.Grant("group-1", 86400)
	require.NoError(t, err)
	require.NoError(t, e.authz.Revoke("group-1"))

	assert.Equal(t, StatusExpired, e.authz.Status("group-1"))

	// Fields are zeroed in place, not removed.
	assert.Equal(t, int64(0), store.Get(e.store, "authz/group-1", "granted_at", int64(-1)))
	assert.Equal(t, int64(0), store.Get(e.store, "authz/group-1", "duration_seconds", int64(-1)))
}

func TestDescribeActive(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.authz.Grant("group-1", 86400)
	require.NoError(t, err)
	e.clock.Advance(1000)

	report := e.authz.Describe("group-1")
	assert.Equal(t, StatusActive, report.Status)
	assert.Equal(t, testEpoch, report.GrantedAt)
	assert.Equal(t, int64(86400-1000), report.RemainingSeconds)
	// Expiry derives from the anchored formula, never now + duration.
	assert.Equal(t, testEpoch+86400, report.ExpiryEpoch)
}

func TestDescribeExpired(t *testing.T) {
	e := newTestEngine(t)

	report := e.authz.Describe("never-granted")
	assert.Equal(t, StatusExpired, report.Status)
	assert.Zero(t, report.RemainingSeconds)
	assert.Zero(t, report.ExpiryEpoch)
}
