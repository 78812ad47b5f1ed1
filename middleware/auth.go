package middleware

import (
	"strings"

	"platform/config"
	"platform/models"
	"platform/response"
	"platform/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to a user record. Missing,
// malformed and expired tokens, and tokens pointing at a deleted user, all
// get the same unauthenticated response.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, _, err := services.GetUserIDFromToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("currentUser", user)
		c.Next()
	}
}

// CurrentUserID reads the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentUser reads the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	if v, ok := c.Get("currentUser"); ok {
		if user, ok := v.(models.User); ok {
			return user, true
		}
	}
	return models.User{}, false
}
