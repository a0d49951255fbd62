package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/arena/cache"
	"github.com/Dosada05/arena/config"
	"github.com/Dosada05/arena/db"
	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/handlers"
	"github.com/Dosada05/arena/middleware"
	"github.com/Dosada05/arena/realtime"
	"github.com/Dosada05/arena/repositories"
	api "github.com/Dosada05/arena/routes"
	"github.com/Dosada05/arena/services"
	"github.com/Dosada05/arena/storage"
	"github.com/go-chi/chi/v5"
)

const version = "1.0.0"

type healthStore interface {
	repositories.Store
	Ping(ctx context.Context) error
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageDriver),
		slog.Bool("auth_required", cfg.AuthRequired))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище
	var store healthStore
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.Migrate(ctx, dbConn); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		store = repositories.NewPostgresStore(dbConn, logger)
		logger.Info("database connection established")
	default:
		store = repositories.NewMemoryStore()
		logger.Warn("using in-memory storage; data is lost on restart")
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("image uploads disabled: R2 is not configured")
	}

	// Шина событий
	publisher := events.NewNoopPublisher()
	if cfg.NATSURL != "" {
		publisher, err = events.NewNATSPublisher(cfg.NATSURL, cfg.NATSToken, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("NATS publisher connected")
	}
	defer publisher.Close()

	// Кэш лидерборда
	leaderboardCache := cache.NewNoopLeaderboardCache()
	if cfg.RedisURL != "" {
		leaderboardCache, err = cache.NewRedisLeaderboardCache(ctx, cfg.RedisURL, cfg.LeaderboardCacheTTL)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Redis leaderboard cache connected", slog.Duration("ttl", cfg.LeaderboardCacheTTL))
	}

	// Инициализация WebSocket Hub
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	effects := services.SideEffects{
		Notifier:    wsHub,
		Publisher:   publisher,
		Leaderboard: leaderboardCache,
		Logger:      logger,
	}

	// Инициализация сервисов
	authService := services.NewAuthService(store, services.ReferralSettings{
		Bonus:      cfg.ReferralBonus,
		BonusCoins: cfg.ReferralBonusCoins,
	}, effects)
	userService := services.NewUserService(store, uploader, effects)
	gameService := services.NewGameService(store)
	tournamentService := services.NewTournamentService(store, uploader, effects)
	teamService := services.NewTeamService(store, effects)
	walletService := services.NewWalletService(store, effects)
	leaderboardService := services.NewLeaderboardService(store, uploader, cfg.LeaderboardLimit, effects)
	notificationService := services.NewNotificationService(store, effects)
	dashboardService := services.NewDashboardService(store)
	logger.Info("Services initialized")

	if cfg.SeedDemoData {
		admin := services.DemoAdmin{
			Username: cfg.SeedAdminUsername,
			Email:    cfg.SeedAdminEmail,
			Password: cfg.SeedAdminPassword,
		}
		if err := services.SeedDemoData(ctx, admin, authService, userService, gameService, logger); err != nil {
			logger.Error("failed to seed demo data", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Планировщик статусов турниров включается явно
	if cfg.AutoStatusUpdates {
		scheduler, err := services.NewStatusScheduler(tournamentService, cfg.AutoStatusInterval, logger)
		if err != nil {
			logger.Error("failed to create status scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("failed to start status scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				logger.Error("failed to stop status scheduler", slog.Any("error", err))
			}
		}()
	}

	// Инициализация обработчиков HTTP
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, cfg.AuthRequired, logger)
	h := api.Handlers{
		Auth:          handlers.NewAuthHandler(authService, cfg.JWTSecretKey, cfg.JWTTTL),
		User:          handlers.NewUserHandler(userService, walletService, notificationService),
		Game:          handlers.NewGameHandler(gameService),
		Tournament:    handlers.NewTournamentHandler(tournamentService),
		Team:          handlers.NewTeamHandler(teamService),
		Wallet:        handlers.NewWalletHandler(walletService),
		Leaderboard:   handlers.NewLeaderboardHandler(leaderboardService),
		Notification:  handlers.NewNotificationHandler(notificationService),
		Admin:         handlers.NewAdminHandler(walletService, notificationService, dashboardService),
		WebSocket:     handlers.NewWebSocketHandler(wsHub, userService, tournamentService, logger),
		Health:        handlers.NewHealthHandler(store, version),
		Authenticator: authenticator,
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
		Logger:         logger,
	}, h)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			cancel()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	cancel()
	logger.Info("application exited")
}
