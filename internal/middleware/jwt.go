package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // Header parsing

	"expense_tracker/internal/utils" // JWT helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// JWTAuthMiddleware rejects requests without a valid bearer token and stores the
// token's user id under "userID"
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route
				"error": err.Error(),  // Why the token was refused
			}).Debug("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}
