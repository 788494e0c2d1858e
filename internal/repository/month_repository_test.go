package repository

import (
	"strings"
	"testing"

	"invotrack/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthSelectQuery(t *testing.T) {
	userID := uuid.New()

	sql, args, err := monthSelectQuery(userID, "2025-03", false)
	require.NoError(t, err)
	assert.NotContains(t, sql, "FOR UPDATE")
	assert.Len(t, args, 2)

	// Mutate reads under a row lock so concurrent read-modify-write
	// cycles on the same month serialize instead of losing updates.
	sql, args, err = monthSelectQuery(userID, "2025-03", true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "FOR UPDATE"), "got: %s", sql)
	assert.Contains(t, sql, "month_records")
	assert.Len(t, args, 2)
}

func TestMonthUpsertQuery(t *testing.T) {
	rec := models.NewMonthRecord(uuid.New(), "2025-03")
	rec.SetBinding("tx-1", models.NotNeeded())

	sql, args, err := monthUpsertQuery(rec)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO month_records")
	assert.Contains(t, sql, "ON CONFLICT (user_id, month_key) DO UPDATE")
	assert.Contains(t, sql, "bindings = EXCLUDED.bindings")
	require.Len(t, args, 5)

	bindingsJSON, ok := args[4].([]byte)
	require.True(t, ok)
	assert.Contains(t, string(bindingsJSON), "not_needed")
}
