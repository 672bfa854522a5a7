// Package session keeps a registry of live access tokens keyed by jti so a
// logout can revoke a token before it expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/halisahar-connect/civic-portal/pkg/config"
	redisclient "github.com/halisahar-connect/civic-portal/pkg/redis"
)

// ErrUnknownSession is returned when a rotation targets a jti that was never
// registered, was already rotated, or belongs to another user.
var ErrUnknownSession = errors.New("unknown session")

var errBlankAccessID = errors.New("access id is required")

type store interface {
	Key(parts ...string) string
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetDel(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// AccessSessionChecker is the read side used by the auth middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type Manager struct {
	store store
	ttl   time.Duration
}

// NewManager keeps each entry for as long as the token it tracks is valid.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &Manager{store: client, ttl: ttl}, nil
}

func (m *Manager) key(accessID string) string {
	return m.store.Key("session", "access", accessID)
}

func (m *Manager) Register(ctx context.Context, accessID string, userID uuid.UUID) error {
	if strings.TrimSpace(accessID) == "" {
		return errBlankAccessID
	}
	return m.store.Set(ctx, m.key(accessID), userID.String(), m.ttl)
}

// Rotate consumes oldAccessID and registers a fresh jti for the same user.
// Two concurrent rotations of one jti cannot both succeed.
func (m *Manager) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID) (string, error) {
	if strings.TrimSpace(oldAccessID) == "" {
		return "", ErrUnknownSession
	}
	key := m.key(oldAccessID)

	owner, err := m.store.Get(ctx, key)
	switch {
	case redisclient.IsNil(err):
		return "", ErrUnknownSession
	case err != nil:
		return "", err
	case owner != userID.String():
		return "", ErrUnknownSession
	}

	if _, err := m.store.GetDel(ctx, key); err != nil {
		if redisclient.IsNil(err) {
			return "", ErrUnknownSession
		}
		return "", err
	}

	next := NewAccessID()
	if err := m.Register(ctx, next, userID); err != nil {
		return "", err
	}
	return next, nil
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errBlankAccessID
	}
	return m.store.Del(ctx, m.key(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errBlankAccessID
	}
	_, err := m.store.Get(ctx, m.key(accessID))
	switch {
	case redisclient.IsNil(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as the JWT jti and registry key.
func NewAccessID() string {
	return uuid.NewString()
}
