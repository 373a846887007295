package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/layer-3/gamelan/core"
	"github.com/layer-3/gamelan/service"
)

// RequestIDHeader carries the correlation id, echoed verbatim when the
// caller supplies one
const RequestIDHeader = "X-Request-Id"

const sessionContextKey = "session"

// RequestID echoes the caller's correlation id, or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(RequestIDHeader, id)
		c.Set("requestID", id)

		c.Next()
	}
}

// RequestLogger logs one line per completed request
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("requestID"),
		)
	}
}

// CORS allows cross-origin calls from the frontend during development
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Session-Nonce, X-Request-Id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequireSession creates middleware that gates a route on a valid session
// token. The check runs before the handler gets any chance at side effects.
func RequireSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")

		// Check if the Authorization header is present and in correct format
		if len(auth) < 8 || auth[:7] != "Bearer " {
			abortWithError(c, http.StatusUnauthorized, ErrorTypeAuthentication, CodeMissingToken,
				"Authorization header with Bearer token is required")
			return
		}

		// Extract the token
		token := auth[7:]

		// Validate the token
		session, err := authService.VerifySession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, core.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, ErrorTypeAuthentication, CodeInvalidToken,
					"Session expired, please refresh the page")
			} else {
				abortWithError(c, http.StatusUnauthorized, ErrorTypeAuthentication, CodeInvalidToken,
					"Invalid session token")
			}
			return
		}

		c.Set(sessionContextKey, session)

		c.Next()
	}
}
