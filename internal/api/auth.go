package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Username format
	"strings"  // String manipulation

	"expense_tracker/internal/domain" // Domain models
	"expense_tracker/internal/utils"  // JWT helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Credentials is the body of both register and login
type Credentials struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{2,31}$`)

// checkCredentials returns a client-facing reason when the credentials are unacceptable
func checkCredentials(req Credentials) string {
	if !usernamePattern.MatchString(req.Username) {
		return "Username must be 3-32 letters, digits or underscores, starting with a letter"
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		return "Password must be 8-72 characters" // bcrypt ignores anything past 72 bytes
	}
	return ""
}

// RegisterHandler creates a user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			reject(c, http.StatusBadRequest, "Invalid request")
			return
		}
		if reason := checkCredentials(req); reason != "" {
			reject(c, http.StatusBadRequest, reason)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			reject(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		// Usernames are stored lowercase so lookups are case-insensitive
		user := domain.User{Username: strings.ToLower(req.Username), Password: string(hash)}
		if err := db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"username": user.Username, // Requested username
				"error":    err.Error(),   // Error message
			}).Warn("Registration refused")
			reject(c, http.StatusBadRequest, "Username already exists")
			return
		}
		logrus.WithField("user_id", user.ID).Info("User registered")
		respond(c, http.StatusCreated, "User registered successfully", gin.H{"id": user.ID})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			reject(c, http.StatusBadRequest, "Invalid request")
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).Where("username = ?", strings.ToLower(req.Username)).First(&user).Error; err != nil {
			reject(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			reject(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			reject(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		respond(c, http.StatusOK, "", AuthResponse{Token: token})
	}
}
