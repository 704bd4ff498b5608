package service

import (
	"context"
	"time"

	"github.com/doom2286/Foxcom/internal/database/models"
	"github.com/doom2286/Foxcom/internal/database/types"
	"go.uber.org/zap"
)

// DefaultPruneInterval is the minimum time between prune passes.
const DefaultPruneInterval = 10 * time.Minute

// MaintenanceService handles pruning of expired vote state.
type MaintenanceService struct {
	model    *models.MaintenanceModel
	interval time.Duration
	logger   *zap.Logger
}

// NewMaintenance creates a new maintenance service.
func NewMaintenance(model *models.MaintenanceModel, interval time.Duration, logger *zap.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}

	return &MaintenanceService{
		model:    model,
		interval: interval,
		logger:   logger.Named("maintenance_service"),
	}
}

// Interval returns the prune throttle.
func (s *MaintenanceService) Interval() time.Duration {
	return s.interval
}

// ShouldPrune reports whether at least minInterval passed since the last prune.
func (s *MaintenanceService) ShouldPrune(ctx context.Context, minInterval time.Duration) (bool, error) {
	return s.model.ShouldPrune(ctx, minInterval)
}

// Prune removes expired messages and votes unconditionally.
func (s *MaintenanceService) Prune(ctx context.Context) (types.PruneResult, error) {
	result, err := s.model.Prune(ctx)
	if err != nil {
		return result, err
	}

	if result.Messages > 0 || result.Votes > 0 {
		s.logger.Info("Pruned expired vote state",
			zap.Int64("messages", result.Messages),
			zap.Int64("votes", result.Votes))
	}

	return result, nil
}

// PruneIfDue prunes only when the throttle interval has passed.
// The boolean reports whether a prune ran.
func (s *MaintenanceService) PruneIfDue(ctx context.Context) (types.PruneResult, bool, error) {
	due, err := s.model.ShouldPrune(ctx, s.interval)
	if err != nil || !due {
		return types.PruneResult{}, false, err
	}

	result, err := s.Prune(ctx)
	if err != nil {
		return result, false, err
	}

	return result, true, nil
}

// Status returns row counts and the last prune time.
func (s *MaintenanceService) Status(ctx context.Context) (*types.TableCounts, error) {
	return s.model.GetTableCounts(ctx)
}
