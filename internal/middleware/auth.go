package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/auth"
)

const (
	ctxUserID  = "user_id"
	ctxEmail   = "email"
	ctxIsAdmin = "is_admin"
)

// AuthRequired validates the bearer access token and stores the caller's
// identity on the gin context.
func AuthRequired(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		claims, err := tokens.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired rejects callers whose token lacks the admin flag. Must run
// after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Websocket clients cannot set headers from the browser.
	return c.Query("token")
}

// GetUserID returns the authenticated user's ID set by AuthRequired.
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetEmail returns the authenticated user's email set by AuthRequired.
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}
