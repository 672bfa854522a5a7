package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/halisahar-connect/civic-portal/internal/users"
)

// ErrCredentialRejected marks a credential the identity provider refused.
// Any other Verify error means the provider could not be consulted.
var ErrCredentialRejected = errors.New("credential rejected")

// IdentityVerifier validates an opaque identity credential and returns the
// verified identity behind it.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*users.Identity, error)
}

type payloadValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier checks Google-issued ID tokens against the OAuth client ID.
type GoogleVerifier struct {
	validator payloadValidator
	audience  string
}

// NewGoogleVerifier builds a verifier for the given OAuth client ID.
func NewGoogleVerifier(ctx context.Context, clientID string, opts ...option.ClientOption) (*GoogleVerifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	validator, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &GoogleVerifier{validator: validator, audience: clientID}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*users.Identity, error) {
	payload, err := v.validator.Validate(ctx, credential, v.audience)
	if err != nil {
		if certFetchFailed(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialRejected, err)
	}
	identity, err := identityFromPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialRejected, err)
	}
	return identity, nil
}

// certFetchFailed separates signing-cert retrieval problems from token
// checks. idtoken prefixes its own token errors and passes transport and
// cert decoding errors through untouched.
func certFetchFailed(err error) bool {
	msg := err.Error()
	if !strings.HasPrefix(msg, "idtoken:") {
		return true
	}
	return strings.Contains(msg, "unable to retrieve cert") || strings.Contains(msg, "cert response is nil")
}

func identityFromPayload(payload *idtoken.Payload) (*users.Identity, error) {
	if payload == nil || payload.Subject == "" {
		return nil, fmt.Errorf("id token has no subject")
	}
	identity := &users.Identity{
		Subject: payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("id token has no email")
	}
	return identity, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
