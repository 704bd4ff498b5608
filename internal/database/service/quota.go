package service

import (
	"context"
	"time"

	"github.com/doom2286/Foxcom/internal/database/models"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/quota"
	"go.uber.org/zap"
)

// QuotaService handles the broadcast pre-flight.
type QuotaService struct {
	model       *models.QuotaModel
	reputation  *models.ReputationModel
	block       *models.BlockModel
	maintenance *MaintenanceService
	logger      *zap.Logger
}

// NewQuota creates a new quota service.
func NewQuota(
	model *models.QuotaModel,
	reputation *models.ReputationModel,
	block *models.BlockModel,
	maintenance *MaintenanceService,
	logger *zap.Logger,
) *QuotaService {
	return &QuotaService{
		model:       model,
		reputation:  reputation,
		block:       block,
		maintenance: maintenance,
		logger:      logger.Named("quota_service"),
	}
}

// CheckAndConsume consumes one unit of quota if the sliding window allows it.
func (s *QuotaService) CheckAndConsume(
	ctx context.Context, userID uint64, maxActions int, window time.Duration,
) (types.Decision, error) {
	return s.model.CheckAndConsume(ctx, userID, maxActions, window)
}

// Attempt runs the full pre-flight for one broadcast: block check,
// opportunistic prune, account refresh, score lookup and quota consumption.
func (s *QuotaService) Attempt(ctx context.Context, userID uint64, displayName string) (*types.AttemptResult, error) {
	blocked, err := s.block.IsBlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	if blocked {
		return &types.AttemptResult{Blocked: true}, nil
	}

	return s.consume(ctx, userID, displayName)
}

// AttemptAsAdmin is Attempt without the block check. Administrators of the
// admin guild still spend quota like everyone else.
func (s *QuotaService) AttemptAsAdmin(ctx context.Context, userID uint64, displayName string) (*types.AttemptResult, error) {
	return s.consume(ctx, userID, displayName)
}

func (s *QuotaService) consume(ctx context.Context, userID uint64, displayName string) (*types.AttemptResult, error) {
	if _, _, err := s.maintenance.PruneIfDue(ctx); err != nil {
		s.logger.Warn("Opportunistic prune failed", zap.Error(err))
	}

	if err := s.reputation.EnsureAccount(ctx, userID, displayName); err != nil {
		return nil, err
	}

	score, err := s.reputation.GetScore(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := quota.LimitsFor(score)

	decision, err := s.model.CheckAndConsume(ctx, userID, limits.MaxActions, limits.Window)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		s.logger.Debug("Broadcast denied by quota",
			zap.Uint64("userID", userID),
			zap.Int64("score", score),
			zap.Int64("retryAfter", decision.RetryAfter))
	}

	return &types.AttemptResult{
		Decision:   decision,
		Score:      score,
		MaxActions: limits.MaxActions,
		Window:     limits.WindowSeconds(),
	}, nil
}

// Remaining returns how many broadcasts the user has left in the current window.
func (s *QuotaService) Remaining(ctx context.Context, userID uint64) (int, quota.Limits, error) {
	score, err := s.reputation.GetScore(ctx, userID)
	if err != nil {
		return 0, quota.Limits{}, err
	}

	limits := quota.LimitsFor(score)

	used, err := s.model.CountRecent(ctx, userID, limits.Window)
	if err != nil {
		return 0, limits, err
	}

	return max(0, limits.MaxActions-used), limits, nil
}
