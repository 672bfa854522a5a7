package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halisahar-connect/civic-portal/pkg/config"
)

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get("X-Civic-Env"))
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all up", func(t *testing.T) {
		resp := httptest.NewRecorder()
		HealthReady(cfg, map[string]Pinger{"db": ok, "redis": ok}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("one down", func(t *testing.T) {
		resp := httptest.NewRecorder()
		HealthReady(cfg, map[string]Pinger{"db": ok, "redis": down}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, resp.Code)
		envelope := decodeError(t, resp.Body)
		assert.Equal(t, "connection refused", envelope.Error.Details["redis"])
		assert.NotContains(t, envelope.Error.Details, "db")
	})
}
