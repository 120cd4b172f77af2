package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"activity-tracker/internal/config"
	apphttp "activity-tracker/internal/http"
	"activity-tracker/internal/metrics"
	"activity-tracker/internal/repository"
	"activity-tracker/internal/repository/mongodb"
	"activity-tracker/internal/repository/sqlite"
	"activity-tracker/internal/service"
	"activity-tracker/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init database: %v", err)
	}

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	userService := service.NewUserService(store.Users())
	eventService := service.NewEventService(store.Events())
	analyticsService := service.NewAnalyticsService(store.Events())
	snapshotService := service.NewSnapshotService(analyticsService, storageSvc, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		eventService,
		analyticsService,
		snapshotService,
		store,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warnf("close database: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := sqlite.NewStore(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return store, nil
	default:
		store, err := mongodb.Open(ctx, mongodb.Config{
			URI:            cfg.Database.URI,
			Database:       cfg.Database.Name,
			ConnectTimeout: cfg.Database.Timeout,
			Observe:        metrics.ObserveStoreCommand,
		})
		if err != nil {
			return nil, err
		}
		logger.Infof("connected to mongodb database %s", cfg.Database.Name)
		return store, nil
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not set, analytics snapshots disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
