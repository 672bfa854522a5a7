package migrate

import (
	"context"
	"fmt"

	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/db"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
)

// MaybeRunDev prepares the schema on startup. sqlite databases are always
// auto-migrated from the models; postgres runs goose up only in dev with the
// auto-migrate flag set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}

	if client.Dialect() == "sqlite" {
		if err := client.AutoMigrate(ctx, Models()...); err != nil {
			return fmt.Errorf("sqlite automigrate: %w", err)
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "dialect", "sqlite"), "schema auto-migrated")
		}
		return nil
	}

	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
		logg.Info(ctx, "running goose migrations (dev auto-run)")
	}

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "goose migrations completed")
	}
	return nil
}
