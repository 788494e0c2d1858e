package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"invotrack/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUploadTokenInvalid = errors.New("upload token invalid or expired")

// StorageService is the document store: opaque storage ids backed by an
// uploads directory, plus one-shot tokens for the headless upload-url
// flow. Blobs are content, not records; ownership lives in the month
// record that references the storage id.
type StorageService struct {
	uploadDir string
	tokenTTL  time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewStorageService(cfg *config.StorageConfig, logger *zap.Logger) *StorageService {
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logger.Warn("Failed to create upload directory", zap.Error(err))
	}

	return &StorageService{
		uploadDir: cfg.UploadDir,
		tokenTTL:  cfg.UploadTokenTTL,
		logger:    logger,
		tokens:    map[string]time.Time{},
	}
}

// Store writes a blob and returns its storage id. The id embeds the
// file extension so the serving URL keeps a sensible content type.
func (s *StorageService) Store(file io.Reader, fileName string) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	storageID := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.uploadDir, storageID))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(dst.Name())
		return "", 0, fmt.Errorf("failed to save file: %w", err)
	}

	return storageID, size, nil
}

// Exists reports whether a storage id refers to a stored blob.
func (s *StorageService) Exists(storageID string) bool {
	if storageID == "" || storageID != filepath.Base(storageID) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.uploadDir, storageID))
	return err == nil
}

// URL returns the serving URL for a storage id, "" when the blob is gone.
func (s *StorageService) URL(storageID string) string {
	if !s.Exists(storageID) {
		return ""
	}
	return "/uploads/" + storageID
}

// Path returns the on-disk path of a stored blob.
func (s *StorageService) Path(storageID string) string {
	return filepath.Join(s.uploadDir, filepath.Base(storageID))
}

// Delete removes a blob. Deleting an already-gone blob is not an error.
func (s *StorageService) Delete(storageID string) error {
	if storageID == "" || storageID != filepath.Base(storageID) {
		return nil
	}
	err := os.Remove(filepath.Join(s.uploadDir, storageID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// NewUploadToken issues a one-shot token for the upload-url flow.
func (s *StorageService) NewUploadToken() string {
	token := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.tokens[token] = time.Now().Add(s.tokenTTL)
	return token
}

// ConsumeUploadToken validates and invalidates a token in one step.
func (s *StorageService) ConsumeUploadToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.tokens[token]
	if !ok {
		return ErrUploadTokenInvalid
	}
	delete(s.tokens, token)
	if time.Now().After(expiry) {
		return ErrUploadTokenInvalid
	}
	return nil
}

func (s *StorageService) pruneLocked() {
	now := time.Now()
	for token, expiry := range s.tokens {
		if now.After(expiry) {
			delete(s.tokens, token)
		}
	}
}
