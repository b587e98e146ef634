package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RelationshipRelative  = "Relative"
	RelationshipAssociate = "Associate"
)

// ClientRelativeAssociate links a named person to the subject. Names are
// unique per client case-insensitively.
type ClientRelativeAssociate struct {
	Record
	ClientID         uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client           *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Name             string    `gorm:"type:text;not null" json:"name"`
	RelationshipType string    `gorm:"size:32" json:"relationship_type"`
}

// ClientSocialAccount is a social media presence; profile URLs are unique
// per client case-insensitively.
type ClientSocialAccount struct {
	Record
	ClientID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Client                     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Platform        string                      `gorm:"size:64;not null" json:"platform"`
	ProfileURL      string                      `gorm:"type:text;not null" json:"profile_url"`
	WhatIsExposed   datatypes.JSONSlice[string] `json:"what_is_exposed"`
	EngagementLevel string                      `gorm:"size:32" json:"engagement_level"`
	ConfidenceLevel string                      `gorm:"size:32" json:"confidence_level"`
}
