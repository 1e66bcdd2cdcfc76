package handlers

import (
	"net/http"

	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthzHandler exposes authorization windows: read-only status for
// everyone, grant and revoke for admins.
type AuthzHandler struct {
	authz   *services.AuthorizationService
	metrics metrics.Recorder
}

func NewAuthzHandler(as *services.AuthorizationService, rec metrics.Recorder) *AuthzHandler {
	return &AuthzHandler{authz: as, metrics: rec}
}

// Status returns the status card for a scope (GET /api/authz/:scope_id).
// Unknown scopes read as expired, never as an error.
func (h *AuthzHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.authz.Describe(c.Param("scope_id")))
}

type grantRequest struct {
	DurationSeconds int64 `json:"duration_seconds" binding:"required"`
}

// Grant applies a duration to a scope (POST /admin/authz/:scope_id/grant).
func (h *AuthzHandler) Grant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "duration_seconds is required")
		return
	}

	report, err := h.authz.Grant(c.Param("scope_id"), req.DurationSeconds)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.metrics.RecordGrant(report.Mode, report.AddedSeconds)
	c.JSON(http.StatusOK, report)
}

// Revoke zeroes a scope's window (DELETE /admin/authz/:scope_id).
func (h *AuthzHandler) Revoke(c *gin.Context) {
	if err := h.authz.Revoke(c.Param("scope_id")); err != nil {
		serviceError(c, err)
		return
	}

	h.metrics.RecordGrantRevoked()
	c.JSON(http.StatusOK, gin.H{"scope_id": c.Param("scope_id"), "status": services.StatusExpired})
}
