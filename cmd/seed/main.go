package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"invotrack/internal/models"
	"invotrack/internal/repository"
	"invotrack/pkg/auth"
	"invotrack/pkg/config"
	"invotrack/pkg/logger"
	"invotrack/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	demoEmail    = "demo@invotrack.dev"
	demoUsername = "demo"
	demoPassword = "demo-password"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		key_hash TEXT NOT NULL UNIQUE,
		scopes TEXT[] NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		last_used_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS month_records (
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		month_key TEXT NOT NULL,
		invoices JSONB NOT NULL DEFAULT '[]',
		statements JSONB NOT NULL DEFAULT '[]',
		bindings JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, month_key)
	)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		filter_policy JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Starting database seeding...")

	if err := ensureSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to create schema", zap.Error(err))
	}
	appLogger.Info("Schema is up to date")

	userRepo := repository.NewUserRepository(db, appLogger)
	keyRepo := repository.NewAPIKeyRepository(db, appLogger)

	user, err := seedDemoUser(ctx, userRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	plainKey, err := seedUploadKey(ctx, keyRepo, user.ID)
	if err != nil {
		appLogger.Fatal("Failed to seed API key", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")

	// The plaintext key is only recoverable here: the database stores its hash.
	fmt.Printf("\nDemo account: %s / %s\n", demoEmail, demoPassword)
	fmt.Printf("Headless API key (save it now): %s\n", plainKey)
}

func ensureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func seedDemoUser(ctx context.Context, repo *repository.UserRepository, logger *zap.Logger) (*models.User, error) {
	existing, _ := repo.GetByEmail(ctx, demoEmail)
	if existing != nil {
		logger.Info("Demo user already exists, skipping", zap.String("email", demoEmail))
		return existing, nil
	}

	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	logger.Info("Created demo user", zap.String("email", demoEmail))
	return user, nil
}

func seedUploadKey(ctx context.Context, repo *repository.APIKeyRepository, userID uuid.UUID) (string, error) {
	plainKey, err := auth.NewAPIKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	key := &models.APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "seed-upload-key",
		KeyHash:   auth.HashAPIKey(plainKey),
		Scopes:    []string{auth.ScopeUploadWrite},
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, key); err != nil {
		return "", fmt.Errorf("failed to store API key: %w", err)
	}

	return plainKey, nil
}
