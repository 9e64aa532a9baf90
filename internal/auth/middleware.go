package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okravets/case-records/internal/database"
)

// ContextKeyUser is the gin context key for the authenticated user.
const ContextKeyUser = "user"

// RequireAuth resolves the Authorization bearer token to a user and stores
// it in the request context; requests without a valid session get 401.
func RequireAuth(gate *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := gate.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not listed.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// CurrentUser returns the authenticated user from the request context, or
// nil outside RequireAuth.
func CurrentUser(c *gin.Context) *database.User {
	if v, ok := c.Get(ContextKeyUser); ok {
		if user, ok := v.(*database.User); ok {
			return user
		}
	}
	return nil
}
