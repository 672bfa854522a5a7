package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
)

// AlertDTO is the transport shape of an alert.
type AlertDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Ward      string    `json:"ward"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput holds an admin broadcast. An empty ward addresses every ward.
type CreateInput struct {
	Title   string
	Message string
	Ward    string
	Date    string
	Time    string
}

func FromModel(a *models.Alert) *AlertDTO {
	if a == nil {
		return nil
	}
	return &AlertDTO{
		ID:        a.ID,
		Title:     a.Title,
		Message:   a.Message,
		Ward:      a.Ward,
		Date:      a.Date,
		Time:      a.Time,
		CreatedAt: a.CreatedAt,
	}
}

// FromModels maps a list, always returning a non-nil slice.
func FromModels(list []models.Alert) []AlertDTO {
	out := make([]AlertDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
