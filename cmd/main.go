package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Dosada05/cricket-live/commentary"
	"github.com/Dosada05/cricket-live/config"
	"github.com/Dosada05/cricket-live/db"
	"github.com/Dosada05/cricket-live/handlers"
	"github.com/Dosada05/cricket-live/live"
	"github.com/Dosada05/cricket-live/middleware"
	"github.com/Dosada05/cricket-live/repositories"
	api "github.com/Dosada05/cricket-live/routes"
	"github.com/Dosada05/cricket-live/services"
	"github.com/Dosada05/cricket-live/storage"
	"github.com/go-chi/chi/v5"
)

const version = "1.0.0"

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("driver", cfg.DatabaseDriver))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
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
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Migrate(migrateCtx, dbConn, cfg.DatabaseDriver)
		cancel()
		if err != nil {
			logger.Error("failed to apply schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

	// Архив карточек в Cloudflare R2, если настроен
	var archiver live.Archiver
	r2Cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	if r2Cfg.Configured() {
		uploader, err := storage.NewCloudflareR2Uploader(context.Background(), r2Cfg, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		archiver = storage.NewScorecardArchiver(uploader, logger)
		logger.Info("Cloudflare R2 scorecard archive enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 is not configured, scorecard archiving disabled")
	}

	// Инициализация репозиториев
	matchRepo := repositories.NewMatchRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn)
	tournamentRepo := repositories.NewTournamentRepository(dbConn)
	inningsRepo := repositories.NewInningsRepository(dbConn)
	ballRepo := repositories.NewBallRepository(dbConn)
	liveStore := repositories.NewLiveStore(dbConn, matchRepo, teamRepo, inningsRepo, ballRepo)
	logger.Info("Repositories initialized")

	comm, err := commentary.New()
	if err != nil {
		logger.Error("failed to load commentary templates", slog.Any("error", err))
		os.Exit(1)
	}

	// WebSocket комнаты и очередь подач
	hub := live.NewHub(logger)
	coordinator := live.NewCoordinator(liveStore, hub, comm, logger, live.Options{
		PersistRetries: cfg.PersistRetries,
		Archiver:       archiver,
	})

	// Инициализация сервисов
	teamService := services.NewTeamService(teamRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, matchRepo, coordinator, logger)
	matchService := services.NewMatchService(matchRepo, teamRepo, tournamentRepo, inningsRepo, coordinator, logger)
	logger.Info("Services initialized")

	expvar.Publish("goroutines", expvar.Func(func() any { return runtime.NumGoroutine() }))

	// Инициализация обработчиков HTTP
	auth := middleware.NewAuthenticator(cfg.JWTSecretKey, logger)
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Health:     handlers.NewHealthHandler(dbConn, version, logger),
		Match:      handlers.NewMatchHandler(matchService, logger),
		Tournament: handlers.NewTournamentHandler(tournamentService, logger),
		Team:       handlers.NewTeamHandler(teamService, logger),
		WebSocket: handlers.NewWebSocketHandler(coordinator, auth, cfg.CORSAllowedOrigins, live.ClientConfig{
			MessagesPerSecond: cfg.WSMessagesPerSecond,
			Burst:             cfg.WSBurst,
		}, logger),
	}, auth, cfg.CORSAllowedOrigins, logger)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
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
			// If shutdown fails, force close.
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}

	// Дождаться очередей подач и фоновой архивации до закрытия базы.
	coordinator.Shutdown()
	logger.Info("application exited")
}
