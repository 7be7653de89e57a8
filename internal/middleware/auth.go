package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/auth"
)

// Context keys for storing the caller's identity in gin.Context.
//
// Why string constants instead of inline strings?
//   - Typo protection. c.Get("usr_id") compiles fine but silently returns
//     nil. With constants, the compiler catches typos.
//   - Handlers import these constants, so everyone agrees on the keys.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
)

// AuthMiddleware returns a Gin middleware that checks the bearer token with
// verifier.
//
// If the token is missing or rejected it calls c.AbortWithStatusJSON, so the
// handler never runs and the client gets a 401. Otherwise it stores the
// identity with c.Set and calls c.Next.
//
// Taking a verifier rather than a secret keeps the middleware unaware of
// which provider (JWT or Firebase) issued the token.
func AuthMiddleware(verifier auth.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("token rejected",
				zap.String("request_id", c.GetString(ContextKeyRequestID)),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyUserID, id.UserID)
		c.Set(ContextKeyEmail, id.Email)
		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Browsers cannot set headers on a websocket handshake, so the stream
// route may pass it as ?access_token= instead.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query("access_token"); q != "" {
			return q, true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing authorization header",
		})
		return "", false
	}

	// Split "Bearer eyJhbG..." into ["Bearer", "eyJhbG..."]
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid authorization format, expected: Bearer <token>",
		})
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// GetUserID returns the authenticated user's id, or "" outside an
// authenticated route.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}
