package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budget-tracker/utils"
)

// AuthMiddleware validates the Bearer token and stores the actor on the
// context. Missing or invalid credentials answer 403; the body matches the
// API's fixed contract.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}

		claims, err := utils.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "Invalid token.",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetUserID returns the authenticated actor's id, or "" when the request is
// anonymous.
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetUsername returns the authenticated actor's username.
func GetUsername(c *gin.Context) string {
	return c.GetString("username")
}
