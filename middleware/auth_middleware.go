package middleware

import (
	"net/http"

	"tasknest-app/tasknest/services"
	"tasknest-app/tasknest/utils/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer access token and
// stores the authenticated user's identity in the gin context.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
