package middleware

import (
	"net/http"
	"strings"

	"github.com/Vijaypastham/nutranexus-sub000/services"

	"github.com/gin-gonic/gin"
)

const MerchantKey = "merchant"

// AuthMiddleware guards merchant routes with a bearer token check.
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if username, ok := claims["username"].(string); ok {
			c.Set(MerchantKey, username)
		}
		c.Next()
	}
}
