package main

// @title HK City Directory API
// @version 1.0.0
// @description Каталог организаций Гонконга: категории, листинги, фильтры по районам и фасетам, многоязычный поиск.
// @description
// @description Основные возможности:
// @description - Категории и листинги на 10 языках
// @description - Фильтрация по региону, подрайону и фасетам, сортировка
// @description - Сессии с сохраняемым состоянием фильтров и поиска
// @description - Учёт кликов и статистика посещений
// @description - Админка с PASETO токенами

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hkgcity/directory/internal/auth"
	"github.com/hkgcity/directory/internal/config"
	httpDelivery "github.com/hkgcity/directory/internal/delivery/http"
	"github.com/hkgcity/directory/internal/delivery/http/handler"
	"github.com/hkgcity/directory/internal/pkg/logger"
	"github.com/hkgcity/directory/internal/repository/cache"
	"github.com/hkgcity/directory/internal/repository/postgres"
	redisRepo "github.com/hkgcity/directory/internal/repository/redis"
	"github.com/hkgcity/directory/internal/scheduler"
	"github.com/hkgcity/directory/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New("directory-api", cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting HK City Directory API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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

	// 5. Schema. The store is fail-soft afterwards, so only schema errors are fatal.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatal("Failed to ensure schema", zap.Error(err))
	}
	cancel()

	// 6. Initialize repositories
	docRepo := postgres.NewDocumentRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	gateway := usecase.NewGateway(docRepo, cacheRepo, streamRepo, cfg.Cache.CollectionCacheTTL, log)
	catalog := usecase.NewCatalog(gateway, log)
	catalogUC := usecase.NewCatalogUseCase(catalog, gateway, log)
	sessionUC := usecase.NewSessionUseCase(
		cache.NewStatePersister(cacheRepo, cfg.Cache.SessionStateTTL),
		catalogUC,
		log,
	)
	adminUC := usecase.NewAdminUseCase(gateway, catalog, log)
	statsUC := usecase.NewStatsUseCase(docRepo, cacheRepo, gateway, catalog, cfg.Cache.VisitorSetTTL, log)

	log.Info("Use cases initialized")

	// 8. Auth
	tokens, err := auth.NewTokenService(cfg.Auth.TokenKeyHex, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("Failed to initialize token service", zap.Error(err))
	}
	if cfg.Auth.TokenKeyHex == "" {
		log.Warn("AUTH_TOKEN_KEY is empty, tokens will not survive a restart")
	}
	provider := auth.NewProvider(&cfg.Auth, tokens, cacheRepo, log)

	// 9. Initialize HTTP handlers and server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		}, log),
		Catalog: handler.NewCatalogHandler(catalogUC, log),
		Session: handler.NewSessionHandler(sessionUC, log),
		Auth:    handler.NewAuthHandler(provider, log),
		Admin:   handler.NewAdminHandler(adminUC, statsUC, log),
		Stats:   handler.NewStatsHandler(statsUC, log),
	}, provider)

	log.Info("HTTP server initialized")

	// 10. Catalog refresh scheduler
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(catalog, cfg.Scheduler.CatalogRefresh, log)
		if err := sched.Start(appCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")
	appCancel()

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
