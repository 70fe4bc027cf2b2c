package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "animehub/internal/pkg/jwt"
	"animehub/internal/pkg/response"
)

// Auth validates the bearer token and puts user_id and role on the context.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abort(c, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abort(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abort(c, "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			abort(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole ensures the authenticated user has the given role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly requires the admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}

func abort(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
	c.Abort()
}
