package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/metrics"
	"github.com/halisahar-connect/civic-portal/pkg/visibility"
)

// Service exposes alert broadcasting and ward-scoped reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Alert, error)
	ListForWard(ctx context.Context, ward string) ([]models.Alert, error)
	ListAll(ctx context.Context) ([]models.Alert, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	metrics *metrics.DomainMetrics
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build an alert service.
type ServiceParams struct {
	Repo    Repository
	Metrics *metrics.DomainMetrics
	Logger  *logger.Logger
}

// NewService constructs the alert service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("alert repository is required")
	}
	return &service{
		repo:    params.Repo,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Alert, error) {
	alert := &models.Alert{
		Title:   strings.TrimSpace(input.Title),
		Message: strings.TrimSpace(input.Message),
		Date:    strings.TrimSpace(input.Date),
		Time:    strings.TrimSpace(input.Time),
	}

	details := map[string]string{}
	for field, value := range map[string]string{
		"title":   alert.Title,
		"message": alert.Message,
		"date":    alert.Date,
		"time":    alert.Time,
	} {
		if value == "" {
			details[field] = "is required"
		}
	}
	if len(details) > 0 {
		return nil, pkgerrors.Invalid("title, message, date and time are required", details)
	}

	ward, err := visibility.NormalizeAlertWard(input.Ward)
	if err != nil {
		return nil, err
	}
	alert.Ward = ward

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create alert")
	}

	s.metrics.AlertCreated()
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"alert_id": alert.ID.String(),
			"ward":     alert.Ward,
		})
		s.logg.Info(logCtx, "alert.created")
	}
	return alert, nil
}

func (s *service) ListForWard(ctx context.Context, ward string) ([]models.Alert, error) {
	normalized, err := visibility.ParseWard(ward)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByWards(ctx, visibility.WardsFor(normalized))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list alerts")
	}
	return list, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Alert, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list alerts")
	}
	return list, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "alert not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete alert")
	}
	return nil
}
