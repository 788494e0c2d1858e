package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"invotrack/internal/api"
	"invotrack/internal/api/handlers"
	"invotrack/internal/repository"
	"invotrack/internal/service"
	"invotrack/pkg/auth"
	"invotrack/pkg/config"
	"invotrack/pkg/logger"
	"invotrack/pkg/postgres"

	"go.uber.org/zap"
)

// @title Invotrack API
// @version 1.0
// @description Invoice and bank statement reconciliation service

// @contact.name API Support
// @contact.email support@invotrack.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT or API key.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting invotrack service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	monthRepo := repository.NewMonthRepository(db, appLogger)
	keyRepo := repository.NewAPIKeyRepository(db, appLogger)
	settingsRepo := repository.NewSettingsRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	storage := service.NewStorageService(&cfg.Storage, appLogger)

	extraction, err := service.NewExtractionService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize extraction service", zap.Error(err))
	}
	defer extraction.Close()

	monthService := service.NewMonthService(monthRepo, settingsRepo, storage, appLogger)
	invoiceService := service.NewInvoiceService(monthRepo, monthService, storage, extraction, appLogger)
	statementService := service.NewStatementService(monthRepo, monthService, storage, appLogger)
	settingsService := service.NewSettingsService(settingsRepo, appLogger)

	// Handlers
	h := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, appLogger),
		Month:     handlers.NewMonthHandler(monthService, appLogger),
		Invoice:   handlers.NewInvoiceHandler(invoiceService, appLogger),
		Statement: handlers.NewStatementHandler(statementService, appLogger),
		Upload:    handlers.NewUploadHandler(storage, invoiceService, statementService, appLogger),
		Settings:  handlers.NewSettingsHandler(settingsService, appLogger),
	}

	app := api.SetupRouter(h, jwtManager, keyRepo, cfg.Storage.UploadDir, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
