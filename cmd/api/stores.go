package main

import (
	"context"
	"fmt"

	"github.com/halisahar-connect/civic-portal/api/controllers"
	"github.com/halisahar-connect/civic-portal/internal/alerts"
	"github.com/halisahar-connect/civic-portal/internal/complaints"
	"github.com/halisahar-connect/civic-portal/internal/users"
	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/db"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/migrate"
	mongostore "github.com/halisahar-connect/civic-portal/pkg/mongo"
)

// repositories bundles the storage backends selected by CIVIC_STORE_DRIVER.
type repositories struct {
	users      users.Repository
	complaints complaints.Repository
	alerts     alerts.Repository
	pinger     controllers.Pinger
	close      func(context.Context) error
}

func openRepositories(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*repositories, error) {
	if cfg.Store.UsesMongo() {
		return openMongo(ctx, cfg, logg)
	}
	return openSQL(ctx, cfg, logg)
}

func openSQL(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*repositories, error) {
	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("run dev migrations: %w", err)
	}

	conn := client.DB()
	return &repositories{
		users:      users.NewRepository(conn),
		complaints: complaints.NewRepository(conn),
		alerts:     alerts.NewRepository(conn),
		pinger:     client,
		close: func(context.Context) error {
			return client.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*repositories, error) {
	client, err := mongostore.New(ctx, cfg.Mongo, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap mongo: %w", err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}

	return &repositories{
		users:      users.NewMongoRepository(client),
		complaints: complaints.NewMongoRepository(client),
		alerts:     alerts.NewMongoRepository(client),
		pinger:     client,
		close:      client.Close,
	}, nil
}
