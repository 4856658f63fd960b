package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeclub/internal/api"
	"codeclub/internal/app/service"
	"codeclub/internal/common/security"
	"codeclub/internal/domain/repository"
	"codeclub/internal/domain/repository/memory"
	"codeclub/internal/platform/cache"
	"codeclub/internal/platform/config"
	"codeclub/internal/platform/database"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("configuration loaded", "store_backend", config.AppConfig.StoreBackend)

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize storage backend
	var (
		userRepo     repository.UserRepository
		eventRepo    repository.EventRepository
		contestRepo  repository.ContestRepository
		forumRepo    repository.ForumRepository
		resourceRepo repository.ResourceRepository
		tokens       cache.TokenStore
		lbCache      service.LeaderboardCache
	)

	switch config.AppConfig.StoreBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		userRepo = store.Users()
		eventRepo = store.Events()
		contestRepo = store.Contests()
		forumRepo = store.Forum()
		resourceRepo = store.Resources()
		tokens = cache.NewLocalTokenStore()
		// No redis with the memory backend; the leaderboard is always
		// recomputed.
		sugar.Info("using in-memory store")
	case config.BackendPostgres:
		database.Connect()
		defer database.Close()
		if err := database.RunMigrations(); err != nil {
			sugar.Fatalw("migrations failed", "error", err)
		}
		cache.ConnectRedis()
		defer cache.CloseRedis()

		userRepo = repository.NewPgUserRepository(database.DB)
		eventRepo = repository.NewPgEventRepository(database.DB)
		contestRepo = repository.NewPgContestRepository(database.DB)
		forumRepo = repository.NewPgForumRepository(database.DB)
		resourceRepo = repository.NewPgResourceRepository(database.DB)
		tokens = cache.NewRedisTokenStore(cache.RDB)
		lbCache = cache.NewLeaderboardCache(cache.RDB, config.AppConfig.LeaderboardCacheTTL)
		sugar.Info("using postgres store")
	default:
		sugar.Fatalw("unknown store backend", "store_backend", config.AppConfig.StoreBackend)
	}

	// 4. Initialize Services
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(eventRepo)
	forumService := service.NewForumService(forumRepo)
	resourceService := service.NewResourceService(resourceRepo)
	leaderboardService := service.NewLeaderboardService(contestRepo, eventRepo, userRepo, lbCache, sugar)

	// 5. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService, userService, eventService,
		forumService, resourceService, leaderboardService,
		tokens,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		sugar.Infow("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("listen failed", "port", config.AppConfig.APIPort, "error", err)
		}
	}()

	<-stop // Wait for interrupt signal

	sugar.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalw("server shutdown failed", "error", err)
	}

	sugar.Info("server stopped gracefully")
}
