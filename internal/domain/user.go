package domain

import (
	"github.com/google/uuid" // Identifier generation
	"gorm.io/gorm"           // GORM hooks
)

// User Model
type User struct {
	ID       string `gorm:"primaryKey;size:36"` // Primary key (uuid)
	Username string `gorm:"unique;not null"`    // Unique username
	Password string `gorm:"not null" json:"-"`  // Hashed password
	Role     string `gorm:"default:user"`       // Role: user or admin
}

// BeforeCreate assigns a uuid when the caller did not pick one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
