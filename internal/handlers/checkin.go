package handlers

import (
	"net/http"

	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/services"

	"github.com/gin-gonic/gin"
)

// CheckinHandler exposes the daily check-in ledger.
type CheckinHandler struct {
	checkin *services.CheckinService
	metrics metrics.Recorder
}

func NewCheckinHandler(cs *services.CheckinService, rec metrics.Recorder) *CheckinHandler {
	return &CheckinHandler{checkin: cs, metrics: rec}
}

type checkinRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Checkin records today's check-in (POST /api/checkin).
// A repeat on the same day returns the original record with already=true.
func (h *CheckinHandler) Checkin(c *gin.Context) {
	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	report, err := h.checkin.Checkin(req.UserID)
	if err != nil {
		serviceError(c, err)
		return
	}

	if !report.Already {
		h.metrics.RecordCheckin(report.Rank, report.Reward)
	}
	c.JSON(http.StatusOK, report)
}

// Status returns the check-in status card (GET /api/checkin/:user_id).
func (h *CheckinHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkin.Status(c.Param("user_id")))
}
