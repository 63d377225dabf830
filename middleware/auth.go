// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"bookwala/models"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity in the gin context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userRole", claims.Role)
		c.Set("vendorID", claims.VendorID)
		c.Next()
	}
}

// RequireVendor rejects callers whose token does not carry the vendor role
// and a venue binding. Vendor transitions act on the bound venue only; the
// binding is never taken from the request body. Runs after JWTAuthMiddleware.
func RequireVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != models.RoleVendor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Vendor access required"})
			return
		}
		if c.GetString("vendorID") == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not linked to a venue"})
			return
		}
		c.Next()
	}
}
