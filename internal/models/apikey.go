package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a hashed credential for the headless upload API. The
// plaintext key is never stored, only its SHA-256 digest.
type APIKey struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	Name       string     `db:"name"`
	KeyHash    string     `db:"key_hash"`
	Scopes     []string   `db:"scopes"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
}
