package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClientEmail holds one email address per row; addresses are unique per
// client case-insensitively.
type ClientEmail struct {
	Record
	ClientID          uuid.UUID                   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client            *Client                     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Email             string                      `gorm:"type:text;not null" json:"email"`
	Status            string                      `gorm:"type:text" json:"status"`
	ValidationSources datatypes.JSONSlice[string] `json:"validation_sources"`
	EmailTag          bool                        `gorm:"default:false" json:"email_tag"`
}

// ClientPhoneNumber stores numbers already normalized to +<digits>.
type ClientPhoneNumber struct {
	Record
	ClientID       uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client         *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	PhoneNumber    string    `gorm:"type:text;not null" json:"phone_number"`
	ClientProvided string    `gorm:"size:16" json:"client_provided"`
}

// ClientUsername is a handle the subject uses anywhere online.
type ClientUsername struct {
	Record
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Username string    `gorm:"type:text;not null" json:"username"`
}

// ClientAddress is a postal address tied to the subject.
type ClientAddress struct {
	Record
	ClientID       uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client         *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Address        string    `gorm:"type:text;not null" json:"address"`
	AddressLine1   string    `gorm:"type:text" json:"address_line_1"`
	AddressLine2   string    `gorm:"type:text" json:"address_line_2"`
	City           string    `gorm:"type:text" json:"city"`
	State          string    `gorm:"type:text" json:"state"`
	Zip            string    `gorm:"type:text" json:"zip"`
	ClientProvided string    `gorm:"size:16" json:"client_provided"`
}
