package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-mkbot/mkcore/internal/cache"
	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/services"
	"github.com/go-mkbot/mkcore/internal/util"

	"github.com/gin-gonic/gin"
)

const leaderboardCacheKey = "entries"

// CurrencyHandler exposes the two-account ledger. Leaderboard pages
// are served from a short-lived cache since sorting every wallet on
// each chat command is wasteful.
type CurrencyHandler struct {
	currency *services.CurrencyService
	cache    cache.Cache[[]services.LeaderboardEntry]
	cacheTTL time.Duration
	metrics  metrics.Recorder
}

func NewCurrencyHandler(
	cs *services.CurrencyService,
	lc cache.Cache[[]services.LeaderboardEntry],
	ttl time.Duration,
	rec metrics.Recorder,
) *CurrencyHandler {
	if lc == nil {
		lc = cache.NewMemory[[]services.LeaderboardEntry]()
	}
	return &CurrencyHandler{currency: cs, cache: lc, cacheTTL: ttl, metrics: rec}
}

type moveRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Amount int64  `json:"amount"`
	All    bool   `json:"all"`
}

// Deposit moves liquid funds into reserve (POST /api/currency/deposit).
func (h *CurrencyHandler) Deposit(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	report, err := h.currency.Deposit(req.UserID, req.Amount, req.All)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.metrics.RecordDeposit(report.Deposited)
	h.invalidateLeaderboard(c)
	c.JSON(http.StatusOK, report)
}

// Withdraw moves reserved funds back to liquid with interest
// (POST /api/currency/withdraw).
func (h *CurrencyHandler) Withdraw(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	report, err := h.currency.Withdraw(req.UserID, req.Amount, req.All)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.metrics.RecordWithdrawal(report.Withdrawn, report.Interest)
	h.invalidateLeaderboard(c)
	c.JSON(http.StatusOK, report)
}

// Balance returns the account card (GET /api/currency/balance/:user_id).
func (h *CurrencyHandler) Balance(c *gin.Context) {
	report := h.currency.Balance(c.Param("user_id"))
	c.JSON(http.StatusOK, gin.H{
		"user_id":         report.UserID,
		"liquid":          report.Liquid,
		"reserved":        report.Reserved,
		"cumulative_days": report.CumulativeDays,
		"streak_days":     report.StreakDays,
		"liquid_display":  util.FormatMoney(report.Liquid),
	})
}

// Leaderboard returns ranked wallets (GET /api/currency/leaderboard).
// The optional user_id query annotates the caller's own rank.
func (h *CurrencyHandler) Leaderboard(c *gin.Context) {
	entries, err := cache.Fetch(c.Request.Context(), h.cache, leaderboardCacheKey, h.cacheTTL,
		func(ctx context.Context) ([]services.LeaderboardEntry, error) {
			return h.currency.Leaderboard("").Entries, nil
		})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "server_error", "Internal error")
		return
	}

	callerRank := 0
	if callerID := c.Query("user_id"); callerID != "" {
		for _, e := range entries {
			if e.UserID == callerID {
				callerRank = e.Rank
				break
			}
		}
	}

	c.JSON(http.StatusOK, services.LeaderboardReport{
		Entries:    entries,
		CallerRank: callerRank,
	})
}

func (h *CurrencyHandler) invalidateLeaderboard(c *gin.Context) {
	_ = h.cache.Delete(c.Request.Context(), leaderboardCacheKey)
}
