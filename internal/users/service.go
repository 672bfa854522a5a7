package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/visibility"
)

// Service defines the account operations used by the auth flow and the controllers.
type Service interface {
	FindOrCreateByIdentity(ctx context.Context, identity Identity) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.User, error)
	ListCitizens(ctx context.Context) ([]models.User, error)
	Verify(ctx context.Context, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	admins Allowlist
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build an account service.
type ServiceParams struct {
	Repo      Repository
	Allowlist Allowlist
	Logger    *logger.Logger
}

// NewService constructs the account service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		repo:   params.Repo,
		admins: params.Allowlist,
		logg:   params.Logger,
	}, nil
}

func (s *service) FindOrCreateByIdentity(ctx context.Context, identity Identity) (*models.User, error) {
	if strings.TrimSpace(identity.Subject) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity subject missing")
	}
	if strings.TrimSpace(identity.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity email missing")
	}
	isAdmin := s.admins.Contains(identity.Email)

	user, err := s.repo.FindByIdentityID(ctx, identity.Subject)
	switch {
	case err == nil:
		if isAdmin && !user.IsAdmin() {
			user.PromoteToAdmin()
			if err := s.repo.Save(ctx, user); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upgrade account")
			}
			s.info(ctx, user, "user.promoted")
		}
		return user, nil
	case !errors.Is(err, ErrNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
	}

	role := enums.RoleCitizen
	if isAdmin {
		role = enums.RoleAdmin
	}
	user = identity.toModel(role)
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// a concurrent first sign-in won the insert
			existing, findErr := s.repo.FindByIdentityID(ctx, identity.Subject)
			if findErr == nil {
				return existing, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "account already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}
	s.info(ctx, user, "user.created")
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load account")
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load account")
	}

	if v := trimmed(input.Name); v != "" {
		user.Name = v
	}
	if v := trimmed(input.Photo); v != "" {
		user.Photo = v
	}
	if input.Mobile != nil {
		user.Mobile = strings.TrimSpace(*input.Mobile)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.WardNumber != nil {
		user.WardNumber = *input.WardNumber
	}
	if input.AadharPhoto != nil {
		user.AadharPhoto = strings.TrimSpace(*input.AadharPhoto)
	}

	if missing := missingProfileFields(user); len(missing) > 0 {
		return nil, pkgerrors.Invalid("profile is incomplete", missing)
	}
	user.IsProfileComplete = true

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, mapRepoError(err, "update profile")
	}
	return user, nil
}

func (s *service) ListCitizens(ctx context.Context) ([]models.User, error) {
	list, err := s.repo.ListByRole(ctx, enums.RoleCitizen)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list citizens")
	}
	return list, nil
}

func (s *service) Verify(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load account")
	}
	if user.IsVerified {
		return user, nil
	}
	user.IsVerified = true
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, mapRepoError(err, "verify account")
	}
	s.info(ctx, user, "user.verified")
	return user, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "delete account")
	}
	return nil
}

func missingProfileFields(u *models.User) map[string]string {
	missing := map[string]string{}
	if u.Mobile == "" {
		missing["mobile"] = "is required"
	}
	if u.Address == "" {
		missing["address"] = "is required"
	}
	if !visibility.ValidWard(u.WardNumber) {
		missing["wardNumber"] = fmt.Sprintf("must be between %d and %d", visibility.MinWard, visibility.MaxWard)
	}
	if u.AadharPhoto == "" {
		missing["aadharPhoto"] = "is required"
	}
	return missing
}

func mapRepoError(err error, action string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	case errors.Is(err, ErrDuplicate):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "account already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func (s *service) info(ctx context.Context, user *models.User, msg string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"account_id": user.ID.String(),
		"role":       string(user.Role),
	})
	s.logg.Info(ctx, msg)
}
