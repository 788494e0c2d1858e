package service

import (
	"os"
	"strings"
	"testing"
	"time"

	"invotrack/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T, ttl time.Duration) *StorageService {
	t.Helper()
	return NewStorageService(&config.StorageConfig{
		UploadDir:      t.TempDir(),
		UploadTokenTTL: ttl,
	}, zap.NewNop())
}

func TestStorageService_StoreAndServe(t *testing.T) {
	s := newTestStorage(t, time.Minute)

	storageID, size, err := s.Store(strings.NewReader("%PDF-1.4 fake"), "invoice.PDF")
	require.NoError(t, err)
	assert.Equal(t, int64(13), size)
	assert.True(t, strings.HasSuffix(storageID, ".pdf"))

	assert.True(t, s.Exists(storageID))
	assert.Equal(t, "/uploads/"+storageID, s.URL(storageID))

	data, err := os.ReadFile(s.Path(storageID))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestStorageService_DeleteIsIdempotent(t *testing.T) {
	s := newTestStorage(t, time.Minute)

	storageID, _, err := s.Store(strings.NewReader("data"), "a.csv")
	require.NoError(t, err)

	require.NoError(t, s.Delete(storageID))
	assert.False(t, s.Exists(storageID))
	assert.Equal(t, "", s.URL(storageID))

	// Second delete of the same id is fine.
	assert.NoError(t, s.Delete(storageID))
}

func TestStorageService_RejectsPathTraversal(t *testing.T) {
	s := newTestStorage(t, time.Minute)

	assert.False(t, s.Exists("../etc/passwd"))
	assert.Equal(t, "", s.URL("../etc/passwd"))
	assert.NoError(t, s.Delete("../etc/passwd"))
}

func TestStorageService_UploadTokenOneShot(t *testing.T) {
	s := newTestStorage(t, time.Minute)

	token := s.NewUploadToken()
	require.NoError(t, s.ConsumeUploadToken(token))

	// A token redeems exactly once.
	assert.ErrorIs(t, s.ConsumeUploadToken(token), ErrUploadTokenInvalid)
	assert.ErrorIs(t, s.ConsumeUploadToken("never-issued"), ErrUploadTokenInvalid)
}

func TestStorageService_UploadTokenExpiry(t *testing.T) {
	s := newTestStorage(t, -time.Second)

	token := s.NewUploadToken()
	assert.ErrorIs(t, s.ConsumeUploadToken(token), ErrUploadTokenInvalid)
}
