package complaints

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisahar-connect/civic-portal/pkg/db"
	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

// ErrNotFound is returned by repositories when no complaint matches.
var ErrNotFound = errors.New("complaint not found")

// Repository is the Complaint Repository contract shared by both stores.
// Every listing is ordered newest first.
type Repository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error)
	List(ctx context.Context, filter ListFilter) ([]models.Complaint, error)
	Save(ctx context.Context, complaint *models.Complaint) error
	CountByStatus(ctx context.Context, userID *uuid.UUID) (map[enums.ComplaintStatus]int64, error)
}

// GormRepository persists complaints through GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a complaints repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, "id = ?", id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error) {
	var list []models.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]models.Complaint, error) {
	query := r.db.WithContext(ctx).Model(&models.Complaint{})
	if filter.WardNumber != nil {
		query = query.Where("ward_number = ?", *filter.WardNumber)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var list []models.Complaint
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save writes every column so a cleared resolved_at is persisted as NULL.
func (r *GormRepository) Save(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Save(complaint).Error
}

func (r *GormRepository) CountByStatus(ctx context.Context, userID *uuid.UUID) (map[enums.ComplaintStatus]int64, error) {
	type row struct {
		Status enums.ComplaintStatus
		Count  int64
	}
	query := r.db.WithContext(ctx).Model(&models.Complaint{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var rows []row
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.ComplaintStatus]int64, len(rows))
	for _, rec := range rows {
		counts[rec.Status] = rec.Count
	}
	return counts, nil
}
