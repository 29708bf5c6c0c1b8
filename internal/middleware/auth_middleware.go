package middleware

import (
	"net/http"
	"strings"

	"github.com/Questify-PPL/backend-sub000/pkg/token"
	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication. On success
// the subject (user id) and email claims are set in the request context.
func JWTAuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	const bearerSchema = "Bearer "

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		claims, err := tokens.Verify(authHeader[len(bearerSchema):])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims["sub"])
		c.Set("userEmail", claims["email"])
		c.Next()
	}
}
