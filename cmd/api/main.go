package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/halisahar-connect/civic-portal/api/controllers"
	"github.com/halisahar-connect/civic-portal/api/routes"
	"github.com/halisahar-connect/civic-portal/internal/alerts"
	"github.com/halisahar-connect/civic-portal/internal/auth"
	"github.com/halisahar-connect/civic-portal/internal/complaints"
	"github.com/halisahar-connect/civic-portal/internal/media"
	"github.com/halisahar-connect/civic-portal/internal/users"
	"github.com/halisahar-connect/civic-portal/pkg/auth/session"
	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/metrics"
	"github.com/halisahar-connect/civic-portal/pkg/redis"
	"github.com/halisahar-connect/civic-portal/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	domainMetrics := metrics.NewDomainMetrics(registry)

	readiness := map[string]controllers.Pinger{}
	var closers []func(context.Context) error
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i](closeCtx))
		}
	}()

	repos, err := openRepositories(ctx, cfg, logg)
	if err != nil {
		return err
	}
	closers = append(closers, repos.close)
	readiness["store"] = repos.pinger

	var sessions *session.Manager
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { return redisClient.Close() })
		readiness["redis"] = redisClient

		sessions, err = session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "redis not configured, token revocation disabled")
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:      repos.users,
		Allowlist: users.NewAllowlist(cfg.Identity.AdminEmails),
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	complaintService, err := complaints.NewService(complaints.ServiceParams{
		Repo:    repos.complaints,
		Metrics: domainMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	alertService, err := alerts.NewService(alerts.ServiceParams{
		Repo:    repos.alerts,
		Metrics: domainMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	verifier, err := auth.NewGoogleVerifier(ctx, cfg.Identity.GoogleClientID)
	if err != nil {
		return err
	}

	authParams := auth.ServiceParams{
		Verifier:  verifier,
		Accounts:  userService,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	}
	// only assign a live manager; a typed nil would defeat the optional check
	if sessions != nil {
		authParams.SessionManager = sessions
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		return err
	}

	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return err
		}
		readiness["gcs"] = gcsClient

		mediaService, err = media.NewService(media.ServiceParams{
			Uploader: gcsClient,
			Folder:   cfg.GCS.Folder,
			MaxBytes: cfg.Media.MaxUploadBytes(),
			Metrics:  domainMetrics,
			Logger:   logg,
		})
		if err != nil {
			return err
		}
	} else {
		logg.Warn(ctx, "gcs bucket not configured, image upload disabled")
	}

	routerParams := routes.RouterParams{
		Config:           cfg,
		Logger:           logg,
		Readiness:        readiness,
		HTTPMetrics:      httpMetrics,
		MetricsGatherer:  registry,
		AuthService:      authService,
		UserService:      userService,
		ComplaintService: complaintService,
		AlertService:     alertService,
		MediaService:     mediaService,
	}
	if sessions != nil {
		routerParams.Sessions = sessions
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(routerParams),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"store": cfg.Store.Driver,
	})

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
