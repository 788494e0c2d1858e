package service

import (
	"context"
	"errors"

	"invotrack/internal/models"
	"invotrack/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidPolicy = errors.New("invalid filter policy")

// SettingsService exposes the per-user filter policy through an
// explicit authenticated endpoint instead of process-global flags.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetFilterPolicy returns the user's policy, defaults when none is set.
func (s *SettingsService) GetFilterPolicy(ctx context.Context, userID uuid.UUID) (models.FilterPolicy, error) {
	policy, err := s.settingsRepo.GetFilterPolicy(ctx, userID)
	if err != nil {
		return models.FilterPolicy{}, err
	}
	if policy == nil {
		return models.DefaultFilterPolicy(), nil
	}
	return *policy, nil
}

// SetFilterPolicy validates and stores a policy.
func (s *SettingsService) SetFilterPolicy(ctx context.Context, userID uuid.UUID, policy models.FilterPolicy) error {
	if len(policy.AllowedTransactionTypes) == 0 {
		return ErrInvalidPolicy
	}
	return s.settingsRepo.SetFilterPolicy(ctx, userID, policy)
}
