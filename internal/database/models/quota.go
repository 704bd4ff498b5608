package models

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// DefaultActionRetention is how long broadcast actions are kept.
const DefaultActionRetention = 48 * time.Hour

// QuotaModel handles database operations for broadcast quota consumption.
type QuotaModel struct {
	ledger    *ledger.Ledger
	retention time.Duration
	logger    *zap.Logger
}

// NewQuota creates a new QuotaModel instance.
func NewQuota(l *ledger.Ledger, retention time.Duration, logger *zap.Logger) *QuotaModel {
	if retention <= 0 {
		retention = DefaultActionRetention
	}

	return &QuotaModel{
		ledger:    l,
		retention: retention,
		logger:    logger.Named("db_quota"),
	}
}

// CheckAndConsume atomically decides whether the user may broadcast within a
// sliding window and, if so, records the action.
func (m *QuotaModel) CheckAndConsume(
	ctx context.Context, userID uint64, maxActions int, window time.Duration,
) (types.Decision, error) {
	if maxActions < 1 || window <= 0 {
		return types.Decision{}, fmt.Errorf("%w: max=%d window=%s", types.ErrInvalidLimits, maxActions, window)
	}

	var decision types.Decision

	err := m.ledger.Write(ctx, "check_and_consume", func(ctx context.Context, tx bun.Tx) error {
		var err error
		decision, err = m.CheckAndConsumeWithTx(ctx, tx, userID, maxActions, window)
		return err
	})
	if err != nil {
		return types.Decision{}, err
	}

	m.ledger.Metrics().QuotaDecision(decision.Allowed)

	return decision, nil
}

// CheckAndConsumeWithTx runs the quota decision using the provided transaction.
func (m *QuotaModel) CheckAndConsumeWithTx(
	ctx context.Context, tx bun.IDB, userID uint64, maxActions int, window time.Duration,
) (types.Decision, error) {
	now := m.ledger.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	// Housekeeping
	_, err := tx.NewDelete().
		Model((*types.BroadcastAction)(nil)).
		Where("used_at < ?", now-m.retention.Nanoseconds()).
		Exec(ctx)
	if err != nil {
		return types.Decision{}, fmt.Errorf("failed to discard old actions: %w", err)
	}

	var usedAt []int64

	err = tx.NewSelect().
		Model((*types.BroadcastAction)(nil)).
		Column("used_at").
		Where("user_id = ?", userID).
		Where("used_at >= ?", windowStart).
		Order("used_at ASC").
		Scan(ctx, &usedAt)
	if err != nil {
		return types.Decision{}, fmt.Errorf("failed to list recent actions: %w", err)
	}

	if len(usedAt) >= maxActions {
		remaining := time.Duration(usedAt[0] + window.Nanoseconds() - now)
		retryAfter := max(int64(1), int64(math.Ceil(remaining.Seconds())))

		return types.Decision{Allowed: false, RetryAfter: retryAfter}, nil
	}

	_, err = tx.NewInsert().
		Model(&types.BroadcastAction{UserID: userID, UsedAt: now}).
		Exec(ctx)
	if err != nil {
		return types.Decision{}, fmt.Errorf("failed to record action: %w", err)
	}

	return types.Decision{Allowed: true}, nil
}

// CountRecent returns how many actions the user consumed within the window.
func (m *QuotaModel) CountRecent(ctx context.Context, userID uint64, window time.Duration) (int, error) {
	count, err := m.ledger.DB().NewSelect().
		Model((*types.BroadcastAction)(nil)).
		Where("user_id = ?", userID).
		Where("used_at >= ?", m.ledger.Now().UnixNano()-window.Nanoseconds()).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent actions: %w", err)
	}

	return count, nil
}
