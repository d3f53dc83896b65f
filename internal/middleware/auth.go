package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linkmark/internal/token"
)

const userIDContextKey = "user_id"

// UserID returns the authenticated user's id stored by RequireAuth.
func UserID(c *gin.Context) (int, bool) {
	value, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int)
	return userID, ok
}

// RequireAuth checks for a valid bearer access token and stores the
// resolved user id in the request context. It is applied once at the
// router-group level, so every protected route shares the same gate.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must be in the format 'Bearer {token}'",
			})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccess(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, claims.UserID)
		c.Next()
	}
}
