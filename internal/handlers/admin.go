package handlers

import (
	"net/http"

	"github.com/go-mkbot/mkcore/internal/config"
	"github.com/go-mkbot/mkcore/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler issues JWTs for the admin API. Credentials are a single
// configured operator account with a bcrypt password hash.
type AdminHandler struct {
	config *config.Config
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{config: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a Bearer token (POST /admin/login).
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	if h.config.AdminPasswordHash == "" {
		errorJSON(c, http.StatusForbidden, "admin_disabled", "Admin API is not configured")
		return
	}

	if req.Username != h.config.AdminUsername ||
		bcrypt.CompareHashAndPassword(
			[]byte(h.config.AdminPasswordHash),
			[]byte(req.Password),
		) != nil {
		errorJSON(c, http.StatusUnauthorized, "invalid_credentials", "Wrong username or password")
		return
	}

	token, err := middleware.IssueAdminToken(h.config.JWTSecret, req.Username, h.config.JWTExpiration)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "server_error", "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(h.config.JWTExpiration.Seconds()),
	})
}
