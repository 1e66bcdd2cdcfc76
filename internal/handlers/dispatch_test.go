package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchLine(t *testing.T, app *testApp, scopeID, userID, text string) *httptest.ResponseRecorder {
	t.Helper()
	return app.do(t, http.MethodPost, "/api/dispatch",
		gin.H{"user_id": userID, "scope_id": scopeID, "text": text})
}

func TestDispatchUnknownText(t *testing.T) {
	app := newTestApp(t)
	app.authz.Grant("group-1", 86400)

	for _, text := range []string{"hello there", "deposit lots", "auth"} {
		w := dispatchLine(t, app, "group-1", "1001", text)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeJSON(t, w)["handled"], "text %q", text)
	}
}

func TestDispatchExpiredScopeBlocksLedgers(t *testing.T) {
	app := newTestApp(t)

	for _, text := range []string{"checkin", "balance", "deposit 100", "leaderboard"} {
		w := dispatchLine(t, app, "group-1", "1001", text)
		assert.Equal(t, http.StatusForbidden, w.Code, "text %q", text)
		assert.Equal(t, "scope_expired", decodeJSON(t, w)["error"], "text %q", text)
	}
}

func TestDispatchExpiredScopeAllowsRedeemAndStatus(t *testing.T) {
	app := newTestApp(t)
	keys := issueKeys(t, app, "day", 1)

	w := dispatchLine(t, app, "group-1", "1001", "status")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, true, body["handled"])
	assert.Equal(t, "auth_status", body["command"])
	assert.Equal(t, "expired", body["result"].(map[string]any)["status"])

	w = dispatchLine(t, app, "group-1", "1001", "redeem "+keys[0])
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSON(t, w)
	assert.Equal(t, "redeem", body["command"])

	// The grant landed, so the ledgers open up.
	w = dispatchLine(t, app, "group-1", "1001", "checkin")
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeJSON(t, w)["result"].(map[string]any)
	assert.Equal(t, float64(1), result["rank"])
}

func TestDispatchCurrencyFlow(t *testing.T) {
	app := newTestApp(t)
	app.authz.Grant("group-1", 86400)
	creditTestFunds(t, app, "1001", 1000)

	w := dispatchLine(t, app, "group-1", "1001", "deposit 400")
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeJSON(t, w)["result"].(map[string]any)
	assert.Equal(t, float64(400), result["deposited"])
	assert.Equal(t, float64(600), result["liquid"])

	w = dispatchLine(t, app, "group-1", "1001", "withdraw all")
	require.Equal(t, http.StatusOK, w.Code)
	result = decodeJSON(t, w)["result"].(map[string]any)
	assert.Equal(t, float64(400), result["withdrawn"])

	w = dispatchLine(t, app, "group-1", "1001", "balance")
	require.Equal(t, http.StatusOK, w.Code)
	result = decodeJSON(t, w)["result"].(map[string]any)
	assert.Equal(t, float64(1000), result["liquid"])
}

func TestDispatchServiceErrorsSurface(t *testing.T) {
	app := newTestApp(t)
	app.authz.Grant("group-1", 86400)

	w := dispatchLine(t, app, "group-1", "1001", "withdraw 50")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no_deposit", decodeJSON(t, w)["error"])

	w = dispatchLine(t, app, "group-1", "1001", "redeem MK0000001700000000")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "invalid_key", decodeJSON(t, w)["error"])
}

func TestDispatchValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/dispatch", gin.H{"user_id": "1001", "text": "checkin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
