package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/config"
	"github.com/hkgcity/directory/internal/pkg/logger"
	"github.com/hkgcity/directory/internal/repository/cache"
	"github.com/hkgcity/directory/internal/repository/postgres"
	redisRepo "github.com/hkgcity/directory/internal/repository/redis"
	"github.com/hkgcity/directory/internal/usecase"
	"github.com/hkgcity/directory/internal/worker"
	"github.com/hkgcity/directory/internal/worker/clicks"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New("directory-worker", cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting click worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("claim_min_idle", cfg.Worker.ClaimMinIdle))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and gateway
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	gateway := usecase.NewGateway(
		postgres.NewDocumentRepository(db),
		cache.NewCacheRepository(redisClient),
		streamRepo,
		cfg.Cache.CollectionCacheTTL,
		log,
	)

	// 6. Register workers
	manager := worker.NewManager(log)
	manager.Register(clicks.NewClickWorker(streamRepo, gateway, clicks.Config{
		ConsumerGroup: cfg.Worker.ConsumerGroup,
		ConsumerName:  cfg.Worker.ConsumerName,
		MaxRetries:    cfg.Worker.MaxRetries,
		ClaimMinIdle:  cfg.Worker.ClaimMinIdle,
	}, log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := manager.Stop(stopCtx); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
