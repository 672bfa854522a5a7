package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/internal/auth"
	"github.com/halisahar-connect/civic-portal/internal/users"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
)

type stubAuthService struct {
	resp          *auth.LoginResponse
	err           error
	gotCredential string
	gotUser       uuid.UUID
	gotAccessID   string
}

func (s *stubAuthService) LoginWithGoogle(ctx context.Context, credential string) (*auth.LoginResponse, error) {
	s.gotCredential = credential
	return s.resp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, userID uuid.UUID, accessID string) (*auth.LoginResponse, error) {
	s.gotUser = userID
	s.gotAccessID = accessID
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.gotAccessID = accessID
	return s.err
}

func TestAuthGoogleSuccess(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{
		Token: "signed-token",
		User:  &users.UserDTO{ID: uuid.New(), Email: "a@b.in", Role: enums.RoleCitizen},
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{"credential":"google-id-token"}`))
	resp := httptest.NewRecorder()
	AuthGoogle(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotCredential != "google-id-token" {
		t.Fatalf("expected credential forwarded, got %q", svc.gotCredential)
	}
	var out auth.LoginResponse
	decodeData(t, resp.Body, &out)
	if out.Token != "signed-token" || out.User == nil || out.User.Email != "a@b.in" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestAuthGoogleRequiresCredential(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	AuthGoogle(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.gotCredential != "" {
		t.Fatal("service should not be called")
	}
}

func TestAuthGoogleUpstreamFailure(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.Upstream(context.DeadlineExceeded, "authentication failed")}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{"credential":"x"}`))
	resp := httptest.NewRecorder()
	AuthGoogle(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	envelope := decodeError(t, resp.Body)
	if envelope.Error.Message != "authentication failed" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
	if envelope.Error.Details["upstream"] == nil {
		t.Fatal("expected upstream detail")
	}
}

func TestAuthGoogleRejectedCredential(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.Wrap(pkgerrors.CodeUnauthorized, errors.New("idtoken: token expired"), "invalid credential")}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/google", strings.NewReader(`{"credential":"x"}`))
	resp := httptest.NewRecorder()
	AuthGoogle(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	envelope := decodeError(t, resp.Body)
	if envelope.Error.Message != "invalid credential" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestAuthRefreshUsesCallerContext(t *testing.T) {
	caller := uuid.New()
	svc := &stubAuthService{resp: &auth.LoginResponse{Token: "new"}}

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil), caller, enums.RoleCitizen)
	resp := httptest.NewRecorder()
	AuthRefresh(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotUser != caller || svc.gotAccessID != "jti-1" {
		t.Fatalf("unexpected refresh args %s %s", svc.gotUser, svc.gotAccessID)
	}
}

func TestAuthRefreshWithoutContext(t *testing.T) {
	resp := httptest.NewRecorder()
	AuthRefresh(&stubAuthService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), uuid.New(), enums.RoleCitizen)
	resp := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotAccessID != "jti-1" {
		t.Fatalf("expected jti forwarded got %q", svc.gotAccessID)
	}
}
