package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"invotrack/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SettingsRepository persists per-user configuration, currently the
// invoice-requirement filter policy.
type SettingsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSettingsRepository(db *pgxpool.Pool, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// GetFilterPolicy returns the user's stored policy, nil when none is set.
func (r *SettingsRepository) GetFilterPolicy(ctx context.Context, userID uuid.UUID) (*models.FilterPolicy, error) {
	query := squirrel.Select("filter_policy").
		From("user_settings").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var policyJSON []byte
	err = r.db.QueryRow(ctx, sql, args...).Scan(&policyJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var policy models.FilterPolicy
	if err := json.Unmarshal(policyJSON, &policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filter policy: %w", err)
	}
	return &policy, nil
}

// SetFilterPolicy upserts the user's policy.
func (r *SettingsRepository) SetFilterPolicy(ctx context.Context, userID uuid.UUID, policy models.FilterPolicy) error {
	policyJSON, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to marshal filter policy: %w", err)
	}

	query := squirrel.Insert("user_settings").
		Columns("user_id", "filter_policy", "updated_at").
		Values(userID, policyJSON, squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			filter_policy = EXCLUDED.filter_policy,
			updated_at = NOW()`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
