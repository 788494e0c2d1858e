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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// MonthRepository is the record store for month records: one row per
// (user_id, month_key), collections held as JSONB. All writes go
// through Mutate, which locks the row for the duration of the
// read-modify-write cycle; plain Get is for reads only.
type MonthRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func NewMonthRepository(db *pgxpool.Pool, logger *zap.Logger) *MonthRepository {
	return &MonthRepository{
		db:     db,
		logger: logger,
	}
}

// Get loads the month record, or nil when none exists yet.
func (r *MonthRepository) Get(ctx context.Context, userID uuid.UUID, monthKey string) (*models.MonthRecord, error) {
	return r.get(ctx, r.db, userID, monthKey, false)
}

// Mutate runs a read-modify-write cycle on one month record inside a
// single transaction. The row is locked until commit, so concurrent
// mutations of the same month serialize instead of overwriting each
// other's collections. fn receives nil when no record exists yet and
// returns the record to persist; a non-nil error aborts without
// writing.
func (r *MonthRepository) Mutate(ctx context.Context, userID uuid.UUID, monthKey string, fn func(rec *models.MonthRecord) (*models.MonthRecord, error)) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rec, err := r.get(ctx, tx, userID, monthKey, true)
	if err != nil {
		return err
	}

	updated, err := fn(rec)
	if err != nil {
		return err
	}

	if err := r.save(ctx, tx, updated); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *MonthRepository) get(ctx context.Context, q querier, userID uuid.UUID, monthKey string, forUpdate bool) (*models.MonthRecord, error) {
	sql, args, err := monthSelectQuery(userID, monthKey, forUpdate)
	if err != nil {
		return nil, err
	}

	var (
		rec            models.MonthRecord
		invoicesJSON   []byte
		statementsJSON []byte
		bindingsJSON   []byte
	)
	err = q.QueryRow(ctx, sql, args...).Scan(
		&rec.UserID, &rec.MonthKey, &invoicesJSON, &statementsJSON, &bindingsJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalMonthCollections(&rec, invoicesJSON, statementsJSON, bindingsJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MonthRepository) save(ctx context.Context, q querier, rec *models.MonthRecord) error {
	sql, args, err := monthUpsertQuery(rec)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, sql, args...)
	return err
}

// ListMonthKeys returns the user's month keys, newest first.
func (r *MonthRepository) ListMonthKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := squirrel.Select("month_key").
		From("month_records").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("month_key DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Delete removes a month record and, with it, all bindings it owns.
func (r *MonthRepository) Delete(ctx context.Context, userID uuid.UUID, monthKey string) error {
	query := squirrel.Delete("month_records").
		Where(squirrel.Eq{"user_id": userID, "month_key": monthKey}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func monthSelectQuery(userID uuid.UUID, monthKey string, forUpdate bool) (string, []any, error) {
	query := squirrel.Select("user_id", "month_key", "invoices", "statements", "bindings").
		From("month_records").
		Where(squirrel.Eq{"user_id": userID, "month_key": monthKey}).
		PlaceholderFormat(squirrel.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}
	return query.ToSql()
}

func monthUpsertQuery(rec *models.MonthRecord) (string, []any, error) {
	invoicesJSON, err := json.Marshal(rec.Invoices)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal invoices: %w", err)
	}
	statementsJSON, err := json.Marshal(rec.Statements)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal statements: %w", err)
	}
	bindingsJSON, err := json.Marshal(rec.Bindings)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal bindings: %w", err)
	}

	query := squirrel.Insert("month_records").
		Columns("user_id", "month_key", "invoices", "statements", "bindings", "created_at", "updated_at").
		Values(rec.UserID, rec.MonthKey, invoicesJSON, statementsJSON, bindingsJSON,
			squirrel.Expr("NOW()"), squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (user_id, month_key) DO UPDATE SET
			invoices = EXCLUDED.invoices,
			statements = EXCLUDED.statements,
			bindings = EXCLUDED.bindings,
			updated_at = NOW()`).
		PlaceholderFormat(squirrel.Dollar)

	return query.ToSql()
}

func unmarshalMonthCollections(rec *models.MonthRecord, invoices, statements, bindings []byte) error {
	if len(invoices) > 0 {
		if err := json.Unmarshal(invoices, &rec.Invoices); err != nil {
			return fmt.Errorf("failed to unmarshal invoices: %w", err)
		}
	}
	if len(statements) > 0 {
		if err := json.Unmarshal(statements, &rec.Statements); err != nil {
			return fmt.Errorf("failed to unmarshal statements: %w", err)
		}
	}
	if len(bindings) > 0 {
		if err := json.Unmarshal(bindings, &rec.Bindings); err != nil {
			return fmt.Errorf("failed to unmarshal bindings: %w", err)
		}
	}
	if rec.Bindings == nil {
		rec.Bindings = map[string]models.Binding{}
	}
	return nil
}
