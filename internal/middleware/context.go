package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextClientIP  = "client_ip"
	ContextRequestID = "request_id"

	headerRequestID = "X-Request-ID"
)

// IPMiddleware extracts client IP and stores it in the context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		c.Set(ContextClientIP, c.ClientIP())
		c.Next()
	}
}

// RequestIDMiddleware tags each request with an ID for log correlation.
// An inbound X-Request-ID is kept; otherwise a new one is generated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}
