package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/securelife/insurance-backend/internal/models"
	"github.com/securelife/insurance-backend/pkg/token"
)

// callerKey is the gin context key the authenticated caller is stored under
const callerKey = "caller"

// JWTAuthMiddleware validates the bearer token and stores the caller in the
// request context
func JWTAuthMiddleware(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Authorization header is required",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Authorization header format must be Bearer {token}",
			})
			return
		}

		caller, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "Invalid or expired token",
			})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok || !caller.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "Administrator access required",
			})
			return
		}
		c.Next()
	}
}

// CallerFrom retrieves the authenticated caller set by JWTAuthMiddleware
func CallerFrom(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}
