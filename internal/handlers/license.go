package handlers

import (
	"net/http"

	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/middleware"
	"github.com/go-mkbot/mkcore/internal/models"
	"github.com/go-mkbot/mkcore/internal/services"

	"github.com/gin-gonic/gin"
)

// LicenseHandler exposes key issuance (admin) and redemption (public).
type LicenseHandler struct {
	license *services.LicenseService
	metrics metrics.Recorder
}

func NewLicenseHandler(ls *services.LicenseService, rec metrics.Recorder) *LicenseHandler {
	return &LicenseHandler{license: ls, metrics: rec}
}

type issueRequest struct {
	Tier  string `json:"tier" binding:"required"`
	Count int    `json:"count" binding:"required"`
}

// Issue mints a batch of one-time keys (POST /admin/keys).
func (h *LicenseHandler) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "tier and count are required")
		return
	}

	tier, err := models.ParseTier(req.Tier)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_tier", "Unknown tier: "+req.Tier)
		return
	}

	report, err := h.license.Issue(tier, req.Count, c.GetString(middleware.ContextAdminUser))
	if err != nil {
		serviceError(c, err)
		return
	}

	h.metrics.RecordKeyIssued(string(tier), len(report.Keys))
	c.JSON(http.StatusCreated, report)
}

type redeemRequest struct {
	Key     string `json:"key" binding:"required"`
	ScopeID string `json:"scope_id" binding:"required"`
	UserID  string `json:"user_id"`
}

// Redeem consumes a key and applies its duration to a scope
// (POST /api/license/redeem).
func (h *LicenseHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "key and scope_id are required")
		return
	}

	report, err := h.license.Redeem(req.Key, req.ScopeID, req.UserID)
	if err != nil {
		h.metrics.RecordKeyRedeemed(false)
		serviceError(c, err)
		return
	}

	h.metrics.RecordKeyRedeemed(true)
	h.metrics.RecordGrant(report.Grant.Mode, report.Grant.AddedSeconds)
	c.JSON(http.StatusOK, report)
}

// List returns the unconsumed key inventory (GET /admin/keys).
func (h *LicenseHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.license.List())
}

// Revoke deletes one unconsumed key (DELETE /admin/keys/:key).
func (h *LicenseHandler) Revoke(c *gin.Context) {
	if err := h.license.Revoke(c.Param("key"), c.GetString(middleware.ContextAdminUser)); err != nil {
		serviceError(c, err)
		return
	}

	h.metrics.RecordKeyRevoked()
	c.JSON(http.StatusOK, gin.H{"revoked": c.Param("key")})
}

// Clear deletes every unconsumed key (DELETE /admin/keys).
func (h *LicenseHandler) Clear(c *gin.Context) {
	removed, err := h.license.Clear(c.GetString(middleware.ContextAdminUser))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
