package models

import "github.com/google/uuid"

// ClientFacialRecognitionURL is one page surfaced by a reverse-image search
// for the client's likeness.
type ClientFacialRecognitionURL struct {
	Record
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	URL      string    `gorm:"type:text;not null" json:"url"`
}

// ClientFacialRecognitionSite ties a site where the client's face was found
// to the captured evidence image.
type ClientFacialRecognitionSite struct {
	Record
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	SiteName string    `gorm:"size:255;not null" json:"site_name"`
	ImageURL string    `gorm:"type:text;not null" json:"image_url"`
}
