package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
	"github.com/KNagaSaiSatyaTeja/ecommerce-api/utils"
)

const userContextKey = "currentUser"

// ValidateToken checks the bearer token, resolves the user record and
// attaches it to the request context. Missing token is 401, a bad or
// expired one is 403.
func ValidateToken(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Access token required"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": false, "message": "Invalid or expired token"})
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": false, "message": "Invalid or expired token"})
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// RequireAdmin gates a route to admin users. Must run after ValidateToken.
func RequireAdmin(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok || !user.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": false, "message": "Admin access required"})
		return
	}
	c.Next()
}

// CurrentUser returns the user resolved by ValidateToken.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
