package alerts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
)

// ErrNotFound is returned by repositories when no alert matches.
var ErrNotFound = errors.New("alert not found")

// Repository is the Alert Repository contract shared by both stores.
type Repository interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListByWards(ctx context.Context, wards []string) ([]models.Alert, error)
	ListAll(ctx context.Context) ([]models.Alert, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormRepository persists alerts through GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository constructs an alerts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *GormRepository) ListByWards(ctx context.Context, wards []string) ([]models.Alert, error) {
	var list []models.Alert
	err := r.db.WithContext(ctx).
		Where("ward IN ?", wards).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepository) ListAll(ctx context.Context) ([]models.Alert, error) {
	var list []models.Alert
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Alert{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
