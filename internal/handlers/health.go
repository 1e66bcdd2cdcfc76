package handlers

import (
	"net/http"

	"github.com/go-mkbot/mkcore/internal/audit"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process and audit store health.
type HealthHandler struct {
	audit   *audit.Store
	version string
}

func NewHealthHandler(auditStore *audit.Store, version string) *HealthHandler {
	return &HealthHandler{audit: auditStore, version: version}
}

// Health responds 200 while dependencies are reachable (GET /health).
func (h *HealthHandler) Health(c *gin.Context) {
	if h.audit != nil {
		if err := h.audit.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"version": h.version,
				"audit":   err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}
