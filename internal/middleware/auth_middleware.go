package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"onboardbot/internal/auth"
)

// AdminKey is the context key under which the authenticated admin subject
// is stored.
const AdminKey = "admin"

// JWTAuthMiddleware guards the admin API. Requests must carry a valid
// Bearer token issued by the login endpoint.
func JWTAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		subject, err := auth.ParseToken(jwtSecret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AdminKey, subject)
		c.Next()
	}
}
