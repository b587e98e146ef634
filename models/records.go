package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientGovRecord is a free-form government record of a given type.
type ClientGovRecord struct {
	Record
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client     *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	RecordType string    `gorm:"size:64;not null" json:"record_type"`
	Content    string    `gorm:"column:record;type:text;not null" json:"record"`
}

// ClientVoterRecord holds raw voter registration text.
type ClientVoterRecord struct {
	Record
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client      *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	VoterRecord string    `gorm:"type:text;not null" json:"voter_record"`
}

// ClientDVMRecord holds raw motor-vehicle registration text.
type ClientDVMRecord struct {
	Record
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	DVMRecord string    `gorm:"type:text;not null" json:"dvm_record"`
}

// ClientDonorRecord is one political contribution entry, either keyed in by
// hand or imported from a CSV.
type ClientDonorRecord struct {
	Record
	ClientID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client             *Client    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	ContributorName    string     `gorm:"type:text" json:"contributor_name"`
	Recipient          string     `gorm:"type:text" json:"recipient"`
	RecipientDate      *time.Time `json:"recipient_date"`
	ContributionAmount string     `gorm:"type:text" json:"contribution_amount"`
	CSVFile            string     `gorm:"column:csv_file;type:text" json:"csv_file"`
}

// ClientBusinessInfo describes a business tied to the subject.
type ClientBusinessInfo struct {
	Record
	ClientID            uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client              *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	BusinessName        string    `gorm:"type:text;not null" json:"business_name"`
	BusinessInformation string    `gorm:"type:text;not null" json:"business_information"`
}
