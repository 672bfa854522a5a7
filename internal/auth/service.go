package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/internal/users"
	pkgAuth "github.com/halisahar-connect/civic-portal/pkg/auth"
	"github.com/halisahar-connect/civic-portal/pkg/auth/session"
	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	LoginWithGoogle(ctx context.Context, credential string) (*LoginResponse, error)
	Refresh(ctx context.Context, userID uuid.UUID, accessID string) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type accountService interface {
	FindOrCreateByIdentity(ctx context.Context, identity users.Identity) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionManager interface {
	Register(ctx context.Context, accessID string, userID uuid.UUID) error
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	verifier IdentityVerifier
	accounts accountService
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
// SessionManager is optional; without it tokens live until they expire.
type ServiceParams struct {
	Verifier       IdentityVerifier
	Accounts       accountService
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

// NewService constructs the sign-in service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Verifier == nil {
		return nil, fmt.Errorf("identity verifier is required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("account service is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		verifier: params.Verifier,
		accounts: params.Accounts,
		sessions: params.SessionManager,
		jwtCfg:   params.JWTConfig,
		logg:     params.Logger,
		now:      now,
	}, nil
}

func (s *service) LoginWithGoogle(ctx context.Context, credential string) (*LoginResponse, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential is required").
			WithDetails(map[string]string{"credential": "is required"})
	}

	identity, err := s.verifier.Verify(ctx, credential)
	if errors.Is(err, ErrCredentialRejected) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credential").
			WithDetails(map[string]any{"upstream": err.Error()})
	}
	if err != nil {
		return nil, pkgerrors.Upstream(err, "authentication failed")
	}

	user, err := s.accounts.FindOrCreateByIdentity(ctx, *identity)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	if s.sessions != nil {
		if err := s.sessions.Register(ctx, accessID, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register session")
		}
	}
	return s.issue(ctx, user, accessID)
}

// Refresh re-reads the account so the new token carries the live role.
func (s *service) Refresh(ctx context.Context, userID uuid.UUID, accessID string) (*LoginResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newAccessID := session.NewAccessID()
	if s.sessions != nil {
		newAccessID, err = s.sessions.Rotate(ctx, accessID, user.ID)
		if err != nil {
			if errors.Is(err, session.ErrUnknownSession) {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "session revoked")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
		}
	}
	return s.issue(ctx, user, newAccessID)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if s.sessions == nil || strings.TrimSpace(accessID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, user *models.User, accessID string) (*LoginResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"account_id": user.ID.String(),
			"role":       string(user.Role),
		})
		s.logg.Info(logCtx, "auth.token_issued")
	}
	return &LoginResponse{Token: token, User: users.FromModel(user)}, nil
}
