package handlers

import (
	"net/http"

	"github.com/go-mkbot/mkcore/internal/dispatch"
	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/services"

	"github.com/gin-gonic/gin"
)

// DispatchHandler is the chat entry point: it parses one line of text
// into a command and runs it against the ledgers. Scopes whose
// authorization window has expired only get to redeem keys or ask for
// status; everything else stays silent until a new grant lands.
type DispatchHandler struct {
	authz    *services.AuthorizationService
	license  *services.LicenseService
	checkin  *services.CheckinService
	currency *services.CurrencyService
	metrics  metrics.Recorder
}

func NewDispatchHandler(
	authz *services.AuthorizationService,
	license *services.LicenseService,
	checkin *services.CheckinService,
	currency *services.CurrencyService,
	rec metrics.Recorder,
) *DispatchHandler {
	return &DispatchHandler{
		authz:    authz,
		license:  license,
		checkin:  checkin,
		currency: currency,
		metrics:  rec,
	}
}

type dispatchRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	ScopeID string `json:"scope_id" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// Dispatch parses and executes one chat line (POST /api/dispatch).
// Text that matches no intent returns handled=false with no error.
func (h *DispatchHandler) Dispatch(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request",
			"user_id, scope_id and text are required")
		return
	}

	cmd, ok := dispatch.Parse(req.Text)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"handled": false})
		return
	}

	// Redemption and status work in expired scopes; the rest require
	// an active window.
	switch cmd.(type) {
	case dispatch.RedeemCmd, dispatch.AuthStatusCmd:
	default:
		if h.authz.Status(req.ScopeID) != services.StatusActive {
			errorJSON(c, http.StatusForbidden, "scope_expired",
				"Authorization window for this scope has expired")
			return
		}
	}

	result, err := h.execute(req, cmd)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"handled": true,
		"command": cmd.Name(),
		"result":  result,
	})
}

func (h *DispatchHandler) execute(req dispatchRequest, cmd dispatch.Command) (any, error) {
	switch cmd := cmd.(type) {
	case dispatch.CheckinCmd:
		report, err := h.checkin.Checkin(req.UserID)
		if err == nil && !report.Already {
			h.metrics.RecordCheckin(report.Rank, report.Reward)
		}
		return report, err

	case dispatch.BalanceCmd:
		return h.currency.Balance(req.UserID), nil

	case dispatch.LeaderboardCmd:
		return h.currency.Leaderboard(req.UserID), nil

	case dispatch.AuthStatusCmd:
		return h.authz.Describe(req.ScopeID), nil

	case dispatch.DepositCmd:
		report, err := h.currency.Deposit(req.UserID, cmd.Amount, cmd.All)
		if err == nil {
			h.metrics.RecordDeposit(report.Deposited)
		}
		return report, err

	case dispatch.WithdrawCmd:
		report, err := h.currency.Withdraw(req.UserID, cmd.Amount, cmd.All)
		if err == nil {
			h.metrics.RecordWithdrawal(report.Withdrawn, report.Interest)
		}
		return report, err

	case dispatch.RedeemCmd:
		report, err := h.license.Redeem(cmd.Key, req.ScopeID, req.UserID)
		h.metrics.RecordKeyRedeemed(err == nil)
		if err == nil {
			h.metrics.RecordGrant(report.Grant.Mode, report.Grant.AddedSeconds)
		}
		return report, err
	}

	return nil, nil
}
