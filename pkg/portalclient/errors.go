package portalclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotAuthenticated  = errors.New("portalclient: not signed in")
	ErrProfileIncomplete = errors.New("portalclient: profile must be completed first")
	ErrNotVerified       = errors.New("portalclient: account awaiting verification")
)

// APIError is a non-2xx response decoded from the portal's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("portal api: %d %s", e.Status, e.Message)
}

// IsUnauthenticated reports a missing, invalid or expired session token.
func IsUnauthenticated(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return errors.Is(err, ErrNotAuthenticated)
	}
	return apiErr.Status == http.StatusUnauthorized || (apiErr.Status == http.StatusForbidden && apiErr.Message == "invalid token")
}
