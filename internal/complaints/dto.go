package complaints

import (
	"time"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

// ComplaintDTO is the transport shape of a complaint.
type ComplaintDTO struct {
	ID               uuid.UUID               `json:"id"`
	UserID           uuid.UUID               `json:"userId"`
	Category         enums.ComplaintCategory `json:"category"`
	OtherDescription string                  `json:"otherDescription,omitempty"`
	ImageURL         string                  `json:"imageUrl"`
	ImageURLs        []string                `json:"imageUrls"`
	Latitude         float64                 `json:"latitude"`
	Longitude        float64                 `json:"longitude"`
	Address          string                  `json:"address"`
	WardNumber       int                     `json:"wardNumber"`
	Status           enums.ComplaintStatus   `json:"status"`
	SolutionImageURL string                  `json:"solutionImageUrl,omitempty"`
	ResolutionNote   string                  `json:"resolutionNote,omitempty"`
	ResolvedAt       *time.Time              `json:"resolvedAt"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// CreateInput holds the citizen-supplied fields of a new complaint. The owner
// and status are never taken from here.
type CreateInput struct {
	Category         enums.ComplaintCategory
	OtherDescription string
	ImageURL         string
	ImageURLs        []string
	Latitude         *float64
	Longitude        *float64
	Address          string
	WardNumber       int
}

// UpdateStatusInput is the admin status change. Nil evidence keeps what is stored.
type UpdateStatusInput struct {
	Status           enums.ComplaintStatus
	SolutionImageURL *string
	ResolutionNote   *string
}

// ListFilter narrows the admin listing; nil fields match everything.
type ListFilter struct {
	WardNumber *int
	Category   *enums.ComplaintCategory
	Status     *enums.ComplaintStatus
}

// Stats summarises complaints by status.
type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Solved     int64 `json:"solved"`
}

func FromModel(c *models.Complaint) *ComplaintDTO {
	if c == nil {
		return nil
	}
	images := append([]string{}, c.ImageURLs...)
	return &ComplaintDTO{
		ID:               c.ID,
		UserID:           c.UserID,
		Category:         c.Category,
		OtherDescription: c.OtherDescription,
		ImageURL:         c.ImageURL,
		ImageURLs:        images,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Address:          c.Address,
		WardNumber:       c.WardNumber,
		Status:           c.Status,
		SolutionImageURL: c.SolutionImageURL,
		ResolutionNote:   c.ResolutionNote,
		ResolvedAt:       c.ResolvedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// FromModels maps a list, always returning a non-nil slice.
func FromModels(list []models.Complaint) []ComplaintDTO {
	out := make([]ComplaintDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func statsFromCounts(counts map[enums.ComplaintStatus]int64) Stats {
	stats := Stats{
		Pending:    counts[enums.ComplaintStatusPending],
		InProgress: counts[enums.ComplaintStatusInProgress],
		Solved:     counts[enums.ComplaintStatusSolved],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats
}
