package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

// MaxComplaintImages bounds the photos attached to a single complaint.
const MaxComplaintImages = 4

// Complaint is a geotagged civic problem report owned by the submitting citizen.
// UserID carries no foreign key: removing an account leaves its complaints in place.
type Complaint struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index"`
	Category         enums.ComplaintCategory     `gorm:"column:category;type:text;not null"`
	OtherDescription string                      `gorm:"column:other_description;type:text"`
	ImageURL         string                      `gorm:"column:image_url;type:text;not null"`
	ImageURLs        datatypes.JSONSlice[string] `gorm:"column:image_urls;not null"`
	Latitude         float64                     `gorm:"column:latitude;not null"`
	Longitude        float64                     `gorm:"column:longitude;not null"`
	Address          string                      `gorm:"column:address;type:text;not null"`
	WardNumber       int                         `gorm:"column:ward_number;not null;index"`
	Status           enums.ComplaintStatus       `gorm:"column:status;type:text;not null;index"`
	SolutionImageURL string                      `gorm:"column:solution_image_url;type:text"`
	ResolutionNote   string                      `gorm:"column:resolution_note;type:text"`
	ResolvedAt       *time.Time                  `gorm:"column:resolved_at"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Complaint) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.ImageURLs == nil {
		c.ImageURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}

// ApplyStatus sets the status and recomputes resolvedAt from scratch: a move to
// solved stamps now, any other status clears it. Resolution evidence is only
// overwritten when a value is supplied.
func (c *Complaint) ApplyStatus(status enums.ComplaintStatus, solutionImageURL, resolutionNote *string, now time.Time) {
	c.Status = status
	if status.IsResolved() {
		resolved := now
		c.ResolvedAt = &resolved
	} else {
		c.ResolvedAt = nil
	}
	if solutionImageURL != nil {
		c.SolutionImageURL = *solutionImageURL
	}
	if resolutionNote != nil {
		c.ResolutionNote = *resolutionNote
	}
}
