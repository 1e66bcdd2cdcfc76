package handlers

import (
	"errors"
	"net/http"

	"github.com/go-mkbot/mkcore/internal/services"

	"github.com/gin-gonic/gin"
)

func errorJSON(c *gin.Context, status int, code, description string) {
	c.JSON(status, gin.H{
		"error":             code,
		"error_description": description,
	})
}

// serviceError maps ledger errors to HTTP responses. Unknown errors
// surface as a plain server_error without leaking internals.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidKey):
		errorJSON(c, http.StatusNotFound, "invalid_key", "Key does not exist or was already used")
	case errors.Is(err, services.ErrInvalidAmount):
		errorJSON(c, http.StatusBadRequest, "invalid_amount", "Amount must be a positive integer")
	case errors.Is(err, services.ErrInsufficientFunds):
		errorJSON(c, http.StatusBadRequest, "insufficient_funds", "Balance is too low")
	case errors.Is(err, services.ErrNoDeposit):
		errorJSON(c, http.StatusBadRequest, "no_deposit", "Nothing is deposited")
	case errors.Is(err, services.ErrClockAnomaly):
		errorJSON(c, http.StatusConflict, "clock_anomaly", "Deposit timestamp is in the future")
	default:
		errorJSON(c, http.StatusInternalServerError, "server_error", "Internal error")
	}
}
