package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ScopeUploadWrite authorizes the headless upload endpoints.
const ScopeUploadWrite = "upload:write"

const apiKeyPrefix = "ivt_"

// NewAPIKey generates a random API key. The plaintext is shown to the
// caller exactly once; only its digest is stored.
func NewAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}

// HashAPIKey returns the hex SHA-256 digest of a key. Unlike passwords,
// keys must be looked up by value, so the digest has to be deterministic.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// HasScope reports whether the granted scopes include the required one.
func HasScope(scopes []string, required string) bool {
	for _, s := range scopes {
		if s == required {
			return true
		}
	}
	return false
}
