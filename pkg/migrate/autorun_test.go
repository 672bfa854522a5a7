package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/db"
)

func TestMaybeRunDevAutoMigratesSQLite(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{DSN: "file::memory:", MaxOpenConns: 1}, config.FeatureFlagsConfig{UseSQLite: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{App: config.AppConfig{Env: config.AppEnvProd}}
	require.NoError(t, MaybeRunDev(ctx, cfg, nil, client))

	for _, table := range []string{"users", "complaints", "alerts"} {
		assert.True(t, client.DB().Migrator().HasTable(table), table)
	}
}

func TestMaybeRunDevRequiresClient(t *testing.T) {
	assert.Error(t, MaybeRunDev(context.Background(), &config.Config{}, nil, nil))
}
