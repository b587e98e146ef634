package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ClientBrokerScreenRecord is a data-broker screenshot set: one broker, an
// ordered list of image URLs.
type ClientBrokerScreenRecord struct {
	Record
	ClientID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client     *Client                     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	BrokerName string                      `gorm:"size:255;not null" json:"broker_name"`
	Images     datatypes.JSONSlice[string] `json:"images"`
}

// ClientResidentialHeatmapImage is a single residential or heatmap capture.
type ClientResidentialHeatmapImage struct {
	Record
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	ImageType string    `gorm:"size:64;not null" json:"image_type"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
}

// ClientFrontHouseRecord is the front-of-house property assessment
// checklist with its supporting photos.
type ClientFrontHouseRecord struct {
	Record
	ClientID                     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client                       *Client                     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	HomeVisibleFromStreet        string                      `gorm:"size:64" json:"home_visible_from_street"`
	ExteriorLighting             string                      `gorm:"size:64" json:"exterior_lighting"`
	SurveillanceCameras          string                      `gorm:"size:64" json:"surveillance_cameras"`
	MotionSensorsAlarms          string                      `gorm:"size:64" json:"motion_sensors_alarms"`
	GroundFloorWindowsAccessible string                      `gorm:"size:64" json:"ground_floor_windows_accessible"`
	BarsLocksReinforcedGlass     string                      `gorm:"size:64" json:"bars_locks_reinforced_glass"`
	GateFence                    string                      `gorm:"size:64" json:"gate_fence"`
	ObstructionOfView            string                      `gorm:"size:64" json:"obstruction_of_view"`
	SecuritySignage              string                      `gorm:"size:64" json:"security_signage"`
	Images                       datatypes.JSONSlice[string] `json:"images"`
}

// ClientInsideHouseRecord is the interior assessment checklist.
type ClientInsideHouseRecord struct {
	Record
	ClientID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client         *Client                     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	LayoutExposure string                      `gorm:"size:64" json:"layout_exposure"`
	Images         datatypes.JSONSlice[string] `json:"images"`
}
