package complaints

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/metrics"
	"github.com/halisahar-connect/civic-portal/pkg/visibility"
)

// Service exposes complaint submission, listing and admin status changes.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Complaint, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error)
	ListAll(ctx context.Context, filter ListFilter) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*models.Complaint, error)
	Stats(ctx context.Context, userID *uuid.UUID) (*Stats, error)
}

type service struct {
	repo    Repository
	metrics *metrics.DomainMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a complaint service.
type ServiceParams struct {
	Repo    Repository
	Metrics *metrics.DomainMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewService constructs the complaint service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("complaint repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:    params.Repo,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Complaint, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	images, err := validateCreate(&input)
	if err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		UserID:           userID,
		Category:         input.Category,
		OtherDescription: strings.TrimSpace(input.OtherDescription),
		ImageURL:         images[0],
		ImageURLs:        images,
		Latitude:         *input.Latitude,
		Longitude:        *input.Longitude,
		Address:          strings.TrimSpace(input.Address),
		WardNumber:       input.WardNumber,
		Status:           enums.ComplaintStatusPending,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create complaint")
	}

	s.metrics.ComplaintCreated(string(complaint.Category))
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"complaint_id": complaint.ID.String(),
			"category":     string(complaint.Category),
			"ward":         complaint.WardNumber,
		})
		s.logg.Info(logCtx, "complaint.created")
	}
	return complaint, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list complaints")
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context, filter ListFilter) ([]models.Complaint, error) {
	if filter.WardNumber != nil && !visibility.ValidWard(*filter.WardNumber) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ward filter").
			WithDetails(map[string]string{"ward": wardMessage()})
	}
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter").
			WithDetails(map[string]string{"category": "is invalid"})
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
			WithDetails(map[string]string{"status": "is invalid"})
	}
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list complaints")
	}
	return list, nil
}

// UpdateStatus applies any status regardless of the current one; concurrent
// admin edits are last-write-wins.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*models.Complaint, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]string{"status": "must be one of pending, in-progress, solved"})
	}
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load complaint")
	}

	complaint.ApplyStatus(input.Status, input.SolutionImageURL, input.ResolutionNote, s.now())
	if err := s.repo.Save(ctx, complaint); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update complaint")
	}

	s.metrics.StatusChanged(string(input.Status))
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"complaint_id": complaint.ID.String(),
			"status":       string(complaint.Status),
		})
		s.logg.Info(logCtx, "complaint.status_updated")
	}
	return complaint, nil
}

func (s *service) Stats(ctx context.Context, userID *uuid.UUID) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count complaints")
	}
	stats := statsFromCounts(counts)
	return &stats, nil
}

// validateCreate checks the submission and returns the ordered image list
// with the primary image first.
func validateCreate(input *CreateInput) ([]string, error) {
	details := map[string]string{}

	if !input.Category.IsValid() {
		details["category"] = "must be one of road, garbage, water, drainage, streetlight, other"
	}
	if input.Latitude == nil {
		details["latitude"] = "is required"
	} else if *input.Latitude < -90 || *input.Latitude > 90 {
		details["latitude"] = "must be between -90 and 90"
	}
	if input.Longitude == nil {
		details["longitude"] = "is required"
	} else if *input.Longitude < -180 || *input.Longitude > 180 {
		details["longitude"] = "must be between -180 and 180"
	}
	if strings.TrimSpace(input.Address) == "" {
		details["address"] = "is required"
	}
	if !visibility.ValidWard(input.WardNumber) {
		details["wardNumber"] = wardMessage()
	}

	images := make([]string, 0, len(input.ImageURLs))
	for _, url := range input.ImageURLs {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	primary := strings.TrimSpace(input.ImageURL)
	switch {
	case len(images) == 0 && primary != "":
		images = append(images, primary)
	case len(images) == 0:
		details["imageUrl"] = "at least one image is required"
	case len(images) > models.MaxComplaintImages:
		details["imageUrls"] = fmt.Sprintf("at most %d images are allowed", models.MaxComplaintImages)
	case primary != "" && primary != images[0]:
		details["imageUrl"] = "must match the first entry of imageUrls"
	}

	if len(details) > 0 {
		return nil, pkgerrors.Invalid("invalid complaint", details)
	}
	return images, nil
}

func wardMessage() string {
	return fmt.Sprintf("must be between %d and %d", visibility.MinWard, visibility.MaxWard)
}
