package models

import (
	"time"

	"gorm.io/gorm"
)

// User lives in each tenant database, not in the platform database.
type User struct {
	gorm.Model
	Name                  string     `json:"name" gorm:"default:''"`
	Email                 string     `json:"email" gorm:"unique;not null"`
	Password              string     `json:"-" gorm:"not null"`
	Role                  string     `json:"role" gorm:"default:'student'"`  // student, admin
	Status                string     `json:"status" gorm:"default:'active'"` // active, suspended, withdrawn, deleted
	LastLoginAt           *time.Time `json:"last_login_at"`
	FailedLoginAttempts   int        `json:"-" gorm:"default:0"`
	LastFailedLogin       *time.Time `json:"-"`
	MfaEnabled            bool       `json:"-" gorm:"default:false"`
	MfaEmailCode          string     `json:"-" gorm:"default:''"` // bcrypt hash of the emailed 6-digit code
	MfaEmailCodeExpiresAt *time.Time `json:"-"`
}

// LoginHistory records successful tenant logins for the audit screen.
type LoginHistory struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	LoggedInAt time.Time `json:"logged_in_at"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
}
