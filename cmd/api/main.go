package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nrednav/cuid2"

	"skillswap/internal/adapter/api"
	"skillswap/internal/adapter/api/handler"
	apimiddleware "skillswap/internal/adapter/api/middleware"
	"skillswap/internal/adapter/api/router"
	"skillswap/internal/adapter/repository"
	"skillswap/internal/infrastructure/auth"
	"skillswap/internal/infrastructure/events"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/internal/infrastructure/seed"
	"skillswap/internal/infrastructure/storage"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/internal/usecase"
	"skillswap/pkg/config"
	"skillswap/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Environment)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := repository.NewRecordStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer store.Close()

	repo := repository.NewRecordRepository(store)

	if _, err := seed.NewSeeder(repo).Run(ctx, cfg.SeedFile); err != nil {
		log.Fatalf("Failed to seed demo users: %v", err)
	}

	bus := events.NewBus()
	defer bus.Close()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)
	if err := wsManager.Bridge(ctx, bus, events.TopicNotification, events.TopicSwapAcceptedLanding); err != nil {
		log.Fatalf("Failed to subscribe websocket hub: %v", err)
	}

	var uploader usecase.ReportUploader
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.ServiceAccountPath)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		uploader = storageClient
	} else {
		logger.Info("STORAGE_BUCKET not set, reports are returned inline")
	}

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx, 10*time.Minute)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	gate := usecase.NewWriteGate()

	notificationUseCase := usecase.NewNotificationUseCase(ctx, repo, usecase.SynchronizerOptions{
		Interval:        cfg.NotificationPollInterval,
		AcceptanceDelay: cfg.AcceptanceDelay,
		Publisher:       bus,
		Gate:            gate,
	})
	authUseCase := usecase.NewAuthUseCase(repo, tokens, gate)
	userUseCase := usecase.NewUserUseCase(repo, gate)
	swapUseCase := usecase.NewSwapUseCase(repo, gate)
	feedbackUseCase := usecase.NewFeedbackUseCase(repo, gate)
	chatUseCase := usecase.NewChatUseCase(repo, gate, limiter)
	adminUseCase := usecase.NewAdminUseCase(repo, gate, uploader)

	handler.Setup(authUseCase, userUseCase, swapUseCase, feedbackUseCase, chatUseCase, notificationUseCase, adminUseCase)
	handler.SetupHealthHandler(store, cfg.StoreDriver)
	handler.SetupDevTokenHandler(tokens, repo)
	wsHandler := handler.NewWebSocketHandler(ctx, wsManager, notificationUseCase)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	e.Use(echoprometheus.NewMiddleware("skillswap"))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokens, repo)
	adminMiddleware := apimiddleware.NewAdminMiddleware(repo)

	router.Setup(e, authMiddleware, adminMiddleware, limiter, wsHandler)
	router.SetupDevRouter(e, cfg.Environment)

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandler())
	go func() {
		if err := metrics.Start(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped: %v", err)
		}
	}()

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown: %v", err)
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown: %v", err)
	}

	stop()
	notificationUseCase.Shutdown()
}
