package models

import "github.com/google/uuid"

// ClientGeneratedDocument records a report produced for a client by the
// external document-generation workflow.
type ClientGeneratedDocument struct {
	Record
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client      *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	ClientName  string    `gorm:"type:text;not null" json:"client_name"`
	FileName    string    `gorm:"type:text;not null" json:"file_name"`
	ViewURL     string    `gorm:"type:text;not null" json:"view_url"`
	DownloadURL string    `gorm:"type:text;not null" json:"download_url"`
}
