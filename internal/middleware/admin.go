package middleware

import (
	"net/http" // HTTP status codes

	"expense_tracker/internal/domain" // Domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// RoleAdmin is the role allowed through AdminOnlyMiddleware
const RoleAdmin = "admin"

// AdminOnlyMiddleware checks the user's role in the database on each request, so a
// demotion takes effect before the token expires
func AdminOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil || user.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
			return
		}
		c.Next()
	}
}
