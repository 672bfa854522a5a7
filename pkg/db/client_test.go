package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{DSN: "file::memory:", MaxOpenConns: 1}, config.FeatureFlagsConfig{UseSQLite: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.AutoMigrate(context.Background(), &testModel{}))
	return client
}

func TestNewSQLiteAndPing(t *testing.T) {
	client := newTestClient(t)

	assert.Equal(t, "sqlite", client.Dialect())
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, config.FeatureFlagsConfig{}, nil)
	assert.Error(t, err)
}

func TestUniqueViolationTranslated(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.DB().WithContext(ctx).Create(&testModel{Name: "ward-5"}).Error)
	err := client.DB().WithContext(ctx).Create(&testModel{Name: "ward-5"}).Error

	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("create: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped, ""))
	assert.True(t, IsUniqueViolation(wrapped, "users_email_key"))
	assert.False(t, IsUniqueViolation(wrapped, "users_identity_id_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey, ""))
	assert.False(t, IsUniqueViolation(errors.New("timeout"), ""))
	assert.False(t, IsUniqueViolation(nil, ""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestQueryLogWriterEmitsWarn(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Format: logger.FormatJSON, Output: &buf})

	queryLogWriter{logg: logg}.Printf("SLOW SQL >= %v [%s]", slowQueryThreshold, "SELECT 1")

	line := buf.String()
	assert.Contains(t, line, `"level":"warn"`)
	assert.Contains(t, line, `"component":"gorm"`)
	assert.Contains(t, line, "SLOW SQL >= 500ms")
}
