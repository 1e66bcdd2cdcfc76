package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-mkbot/mkcore/internal/audit"
	"github.com/go-mkbot/mkcore/internal/services"

	"github.com/gin-gonic/gin"
)

// AuditHandler serves the audit trail to admins.
type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(as *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: as}
}

// List returns audit logs, newest first (GET /admin/audit).
// Filters: event_type, scope_id, actor_id, limit.
func (h *AuditHandler) List(c *gin.Context) {
	if h.audit == nil {
		errorJSON(c, http.StatusNotFound, "audit_disabled", "Auditing is not configured")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.audit.List(audit.ListFilter{
		EventType: c.Query("event_type"),
		ScopeID:   c.Query("scope_id"),
		ActorID:   c.Query("actor_id"),
		Limit:     limit,
	})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "server_error", "Failed to retrieve audit logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}
