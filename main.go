package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appmarket/cmd"
	"appmarket/internal/data/entity"
	"appmarket/internal/data/repository"
	"appmarket/internal/usecase"
	"appmarket/internal/wire"
	"appmarket/pkg/database"
	"appmarket/pkg/metrics"
	"appmarket/pkg/oauth"
	"appmarket/pkg/storage"
	"appmarket/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const sweeperQueueSize = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("env", config.App.Env),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.RunMigrations(ctx, db.StdDB()); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Object storage
	var store storage.ObjectStore
	if config.AWS.Bucket != "" {
		store, err = storage.NewS3Store(ctx, config.AWS, logger)
		if err != nil {
			logger.Fatal("Failed to init object storage", zap.Error(err))
		}
	} else {
		logger.Warn("AWS_BUCKET_NAME not set, avatars are kept in memory")
		store = storage.NewMemoryStore()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Old avatar cleanup runs detached from requests
	sweeper := storage.NewSweeper(store, collector, logger, sweeperQueueSize, entity.ProtectedPhotos...)
	sweeper.Run()
	sweeper.ListenErrors(func(err error) {
		logger.Warn("Avatar cleanup failed", zap.Error(err))
	})

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, wire.Deps{
		Infra: usecase.Infra{
			Store:   store,
			Sweeper: sweeper,
			Google:  oauth.NewGoogleVerifier(config.Google, logger),
			Metrics: collector,
		},
		Gatherer: registry,
	}, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}

	app.Limiter.Stop()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sweeper.Stop(stopCtx); err != nil {
		logger.Warn("Avatar cleanup did not drain", zap.Error(err))
	}

	logger.Info("Server stopped")
}
