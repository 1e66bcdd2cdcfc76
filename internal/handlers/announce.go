package handlers

import (
	"errors"
	"net/http"

	"github.com/go-mkbot/mkcore/internal/announce"

	"github.com/gin-gonic/gin"
)

// AnnouncementHandler relays upstream announcement text.
type AnnouncementHandler struct {
	fetcher *announce.Fetcher
}

func NewAnnouncementHandler(f *announce.Fetcher) *AnnouncementHandler {
	return &AnnouncementHandler{fetcher: f}
}

// Get returns the current announcement (GET /api/announcement).
func (h *AnnouncementHandler) Get(c *gin.Context) {
	if h.fetcher == nil {
		errorJSON(c, http.StatusNotFound, "announcement_disabled", "No announcement URL configured")
		return
	}

	body, err := h.fetcher.Fetch(c.Request.Context())
	if err != nil {
		if errors.Is(err, announce.ErrDisabled) {
			errorJSON(c, http.StatusNotFound, "announcement_disabled", "No announcement URL configured")
			return
		}
		errorJSON(c, http.StatusBadGateway, "upstream_error", "Announcement source unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": body})
}
