package models

import "time"

// Roles and account statuses are stored as plain strings so the values
// round-trip unchanged through the API.
const (
	RoleAdmin   = "Admin"
	RoleAnalyst = "Analyst"

	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// User is an operator account: either an Admin or an Analyst.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash []byte    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:50;not null;default:Analyst" json:"role"`
	Status       string    `gorm:"size:50;not null;default:Inactive" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResetToken is a single-use, expiring password reset token. The raw token
// travels in the reset link; only one row per issued link.
type ResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:128;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}
