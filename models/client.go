package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record carries the id and timestamps shared by every client-owned row.
// IDs are generated client-side so the same models work on postgres and
// the sqlite test database.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Client is the subject of an investigation. All sub-resource rows hang off
// it and are destroyed with it. AnalystID is nil while unassigned.
type Client struct {
	Record
	FullName     string     `gorm:"type:text;not null" json:"full_name"`
	OtherNames   string     `gorm:"type:text" json:"other_names"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	ProfilePhoto string     `gorm:"type:text" json:"profile_photo"`
	Sex          string     `gorm:"size:32" json:"sex"`
	Organization string     `gorm:"type:text" json:"organization"`
	Employer     string     `gorm:"type:text" json:"employer"`
	Status       string     `gorm:"size:50;default:pending" json:"status"`
	RiskScore    string     `gorm:"size:50" json:"risk_score"`

	// Denormalized contact summaries; the individual rows live in
	// client_emails / client_phone_numbers.
	Email       string `gorm:"type:text" json:"email"`
	PhoneNumber string `gorm:"type:text" json:"phone_number"`

	AnalystID  *uint      `gorm:"index" json:"analyst_id"`
	Analyst    *User      `gorm:"foreignKey:AnalystID" json:"-"`
	AssignedAt *time.Time `json:"assigned_at"`
}
