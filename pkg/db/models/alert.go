package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is an admin broadcast addressed to one ward or to "all".
// Date and Time are free-form text entered by the author.
type Alert struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"column:title;type:text;not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Ward      string    `gorm:"column:ward;type:text;not null;index"`
	Date      string    `gorm:"column:event_date;type:text;not null"`
	Time      string    `gorm:"column:event_time;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (a *Alert) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
