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

	"github.com/Dosada05/billiards-bracket/advancement"
	"github.com/Dosada05/billiards-bracket/brackets"
	"github.com/Dosada05/billiards-bracket/config"
	"github.com/Dosada05/billiards-bracket/db"
	"github.com/Dosada05/billiards-bracket/handlers"
	"github.com/Dosada05/billiards-bracket/repositories"
	api "github.com/Dosada05/billiards-bracket/routes"
	"github.com/Dosada05/billiards-bracket/services"
	"github.com/Dosada05/billiards-bracket/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-co-op/gocron/v2"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("advancement_mode", cfg.AdvancementMode))

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Процедура продвижения: напрямую через SQL или через RPC бэкенда
	var gateway advancement.Gateway
	switch cfg.AdvancementMode {
	case config.AdvancementModeRPC:
		gateway, err = advancement.NewRPCGateway(advancement.RPCConfig{
			BaseURL:       cfg.AdvancementRPCURL,
			APIKey:        cfg.AdvancementAPIKey,
			Function:      cfg.AdvancementFunction,
			Timeout:       cfg.AdvancementTimeout,
			RatePerSecond: cfg.AdvancementRateLimit,
		}, nil, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize advancement rpc gateway: %w", err)
		}
	default:
		gateway = advancement.NewSQLGateway(dbConn, cfg.AdvancementFunction, cfg.AdvancementTimeout, logger)
	}

	// Архив финальных сеток в Cloudflare R2 (необязательно)
	var archiver services.Archiver
	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Configured() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Config)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archiver = storage.NewBracketArchiver(uploader, "")
		logger.Info("Cloudflare R2 bracket archive enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("Cloudflare R2 is not configured, bracket archive disabled")
	}

	// WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to shut down scheduler", slog.Any("error", err))
		}
	}()

	// Репозитории
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)

	// Сервисы
	notifier := services.NewHubNotifier(wsHub, scheduler, cfg.RefreshDelay, logger)
	bracketService := services.NewBracketService(
		repositories.NewTransactor(dbConn),
		tournamentRepo,
		matchRepo,
		brackets.NewDoubleEliminationGenerator(),
		notifier,
		logger,
	)
	submissionService := services.NewSubmissionService(matchRepo, gateway, notifier, archiver, logger)
	correctionService := services.NewCorrectionService(matchRepo, notifier, logger)

	// HTTP
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{JWTSecret: cfg.JWTSecretKey, AllowedOrigins: cfg.CORSAllowedOrigins, Logger: logger},
		handlers.NewBracketHandler(bracketService),
		handlers.NewMatchHandler(bracketService, submissionService, correctionService),
		handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}
