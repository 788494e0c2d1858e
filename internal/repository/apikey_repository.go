package repository

import (
	"context"
	"errors"

	"invotrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type APIKeyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAPIKeyRepository(db *pgxpool.Pool, logger *zap.Logger) *APIKeyRepository {
	return &APIKeyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	query := squirrel.Insert("api_keys").
		Columns("id", "user_id", "name", "key_hash", "scopes", "created_at").
		Values(key.ID, key.UserID, key.Name, key.KeyHash, key.Scopes, key.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// GetByHash looks a key up by its SHA-256 digest, nil when unknown.
func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	query := squirrel.Select("id", "user_id", "name", "key_hash", "scopes", "created_at", "last_used_at").
		From("api_keys").
		Where(squirrel.Eq{"key_hash": keyHash}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var key models.APIKey
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&key.ID, &key.UserID, &key.Name, &key.KeyHash, &key.Scopes, &key.CreatedAt, &key.LastUsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &key, nil
}

// TouchLastUsed records key usage; failures are logged, not surfaced.
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, keyHash string) {
	query := squirrel.Update("api_keys").
		Set("last_used_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"key_hash": keyHash}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		r.logger.Warn("Failed to update api key usage", zap.Error(err))
	}
}
