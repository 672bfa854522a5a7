package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisahar-connect/civic-portal/pkg/db"
	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

var (
	// ErrNotFound is returned by repositories when no account matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when an identity or email is already taken.
	ErrDuplicate = errors.New("user already exists")
)

// Repository is the Account Repository contract shared by the relational and document stores.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIdentityID(ctx context.Context, identityID string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormRepository persists accounts through GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepository) FindByIdentityID(ctx context.Context, identityID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Save writes every column, so zero values such as an emptied address persist.
func (r *GormRepository) Save(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GormRepository) ListByRole(ctx context.Context, role enums.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if db.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
