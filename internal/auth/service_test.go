package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halisahar-connect/civic-portal/internal/users"
	pkgAuth "github.com/halisahar-connect/civic-portal/pkg/auth"
	"github.com/halisahar-connect/civic-portal/pkg/auth/session"
	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/db/models"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
)

type stubVerifier struct {
	identity *users.Identity
	err      error
}

func (s stubVerifier) Verify(ctx context.Context, credential string) (*users.Identity, error) {
	return s.identity, s.err
}

type stubAccounts struct {
	user *models.User
	err  error
}

func (s *stubAccounts) FindOrCreateByIdentity(ctx context.Context, identity users.Identity) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAccounts) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubSessions struct {
	registered map[string]uuid.UUID
	revoked    []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{registered: map[string]uuid.UUID{}}
}

func (s *stubSessions) Register(ctx context.Context, accessID string, userID uuid.UUID) error {
	s.registered[accessID] = userID
	return nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID) (string, error) {
	if owner, ok := s.registered[oldAccessID]; !ok || owner != userID {
		return "", session.ErrUnknownSession
	}
	delete(s.registered, oldAccessID)
	next := session.NewAccessID()
	s.registered[next] = userID
	return next, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.registered, accessID)
	return nil
}

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "halisahar-connect", ExpirationMinutes: 60}

func newTestService(t *testing.T, verifier IdentityVerifier, accounts accountService, sessions sessionManager) Service {
	t.Helper()
	params := ServiceParams{
		Verifier:  verifier,
		Accounts:  accounts,
		JWTConfig: testJWT,
		Now:       func() time.Time { return time.Now().UTC() },
	}
	if sessions != nil {
		params.SessionManager = sessions
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Verifier: stubVerifier{}, Accounts: &stubAccounts{}})
	assert.Error(t, err, "jwt secret should be required")
}

func TestLoginWithGoogleIssuesTokenWithRole(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@example.com", Role: enums.RoleAdmin}
	sessions := newStubSessions()
	svc := newTestService(t,
		stubVerifier{identity: &users.Identity{Subject: "sub", Email: "a@example.com"}},
		&stubAccounts{user: user},
		sessions,
	)

	resp, err := svc.LoginWithGoogle(context.Background(), "cred")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.RoleAdmin, claims.Role)
	assert.Equal(t, user.ID, sessions.registered[claims.ID])
}

func TestLoginWithGoogleErrors(t *testing.T) {
	svc := newTestService(t, stubVerifier{err: errors.New("token expired")}, &stubAccounts{}, nil)

	_, err := svc.LoginWithGoogle(context.Background(), " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.LoginWithGoogle(context.Background(), "cred")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Equal(t, map[string]any{"upstream": "token expired"}, typed.Details())
}

func TestLoginWithGoogleRejectedCredentialIsUnauthorized(t *testing.T) {
	rejected := fmt.Errorf("%w: idtoken: token expired", ErrCredentialRejected)
	accounts := &stubAccounts{}
	svc := newTestService(t, stubVerifier{err: rejected}, accounts, nil)

	_, err := svc.LoginWithGoogle(context.Background(), "cred")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Equal(t, "invalid credential", typed.Message())
	assert.Equal(t, map[string]any{"upstream": rejected.Error()}, typed.Details())
}

func TestRefreshCarriesLiveRole(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.RoleCitizen}
	accounts := &stubAccounts{user: user}
	sessions := newStubSessions()
	svc := newTestService(t, stubVerifier{identity: &users.Identity{Subject: "s", Email: "e"}}, accounts, sessions)

	login, err := svc.LoginWithGoogle(context.Background(), "cred")
	require.NoError(t, err)
	oldClaims, err := pkgAuth.ParseAccessToken(testJWT, login.Token)
	require.NoError(t, err)

	user.PromoteToAdmin()
	refreshed, err := svc.Refresh(context.Background(), user.ID, oldClaims.ID)
	require.NoError(t, err)
	claims, err := pkgAuth.ParseAccessToken(testJWT, refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, claims.Role)
	assert.NotEqual(t, oldClaims.ID, claims.ID)

	_, err = svc.Refresh(context.Background(), user.ID, oldClaims.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestRefreshWithoutSessions(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.RoleCitizen}
	svc := newTestService(t, stubVerifier{}, &stubAccounts{user: user}, nil)

	resp, err := svc.Refresh(context.Background(), user.ID, "anything")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Refresh(context.Background(), uuid.Nil, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestRefreshDeletedAccount(t *testing.T) {
	svc := newTestService(t, stubVerifier{}, &stubAccounts{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}, nil)
	_, err := svc.Refresh(context.Background(), uuid.New(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestLogout(t *testing.T) {
	sessions := newStubSessions()
	svc := newTestService(t, stubVerifier{}, &stubAccounts{}, sessions)
	require.NoError(t, svc.Logout(context.Background(), "jti-1"))
	assert.Equal(t, []string{"jti-1"}, sessions.revoked)

	noSessions := newTestService(t, stubVerifier{}, &stubAccounts{}, nil)
	assert.NoError(t, noSessions.Logout(context.Background(), "jti-1"))
}
