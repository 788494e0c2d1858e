package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIKey(t *testing.T) {
	key1, err := NewAPIKey()
	require.NoError(t, err)
	key2, err := NewAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key1, "ivt_"))
	assert.Len(t, key1, len("ivt_")+64)
	assert.NotEqual(t, key1, key2)
}

func TestHashAPIKey(t *testing.T) {
	key, err := NewAPIKey()
	require.NoError(t, err)

	hash := HashAPIKey(key)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashAPIKey(key))
	assert.NotEqual(t, hash, HashAPIKey(key+"x"))
}

func TestHasScope(t *testing.T) {
	scopes := []string{"upload:write", "reports:read"}
	assert.True(t, HasScope(scopes, ScopeUploadWrite))
	assert.False(t, HasScope(scopes, "admin"))
	assert.False(t, HasScope(nil, ScopeUploadWrite))
}
