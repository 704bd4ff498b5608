package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReputationModel handles database operations for reputation accounts.
type ReputationModel struct {
	ledger *ledger.Ledger
	logger *zap.Logger
}

// NewReputation creates a new ReputationModel instance.
func NewReputation(l *ledger.Ledger, logger *zap.Logger) *ReputationModel {
	return &ReputationModel{
		ledger: l,
		logger: logger.Named("db_reputation"),
	}
}

// GetScore returns the user's score, or 0 if the user has no account.
func (m *ReputationModel) GetScore(ctx context.Context, userID uint64) (int64, error) {
	return m.GetScoreWithTx(ctx, m.ledger.DB(), userID)
}

// GetScoreWithTx returns the user's score using the provided connection.
func (m *ReputationModel) GetScoreWithTx(ctx context.Context, idb bun.IDB, userID uint64) (int64, error) {
	var rep int64

	err := idb.NewSelect().
		Model((*types.ReputationAccount)(nil)).
		Column("rep").
		Where("user_id = ?", userID).
		Scan(ctx, &rep)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get score: %w", err)
	}

	return rep, nil
}

// GetAccount retrieves a user's account.
func (m *ReputationModel) GetAccount(ctx context.Context, userID uint64) (*types.ReputationAccount, bool, error) {
	var account types.ReputationAccount

	err := m.ledger.DB().NewSelect().
		Model(&account).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, true, nil
}

// EnsureAccount creates the account at score 0 if absent, otherwise refreshes
// its display name and timestamp.
func (m *ReputationModel) EnsureAccount(ctx context.Context, userID uint64, displayName string) error {
	return m.ledger.Write(ctx, "ensure_account", func(ctx context.Context, tx bun.Tx) error {
		return m.EnsureAccountWithTx(ctx, tx, userID, displayName)
	})
}

// EnsureAccountWithTx upserts the account using the provided transaction.
// An empty display name keeps the stored one.
func (m *ReputationModel) EnsureAccountWithTx(ctx context.Context, tx bun.IDB, userID uint64, displayName string) error {
	account := &types.ReputationAccount{
		UserID:      userID,
		UserName:    displayName,
		Rep:         0,
		LastUpdated: m.ledger.Now().UnixNano(),
	}

	_, err := tx.NewInsert().
		Model(account).
		On("CONFLICT (user_id) DO UPDATE").
		Set("user_name = COALESCE(NULLIF(EXCLUDED.user_name, ''), user_name)").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}

	return nil
}

// AdjustScore applies a signed delta to an existing account.
func (m *ReputationModel) AdjustScore(ctx context.Context, userID uint64, delta int64) error {
	return m.ledger.Write(ctx, "adjust_score", func(ctx context.Context, tx bun.Tx) error {
		return m.AdjustScoreWithTx(ctx, tx, userID, delta)
	})
}

// AdjustScoreWithTx applies a signed delta using the provided transaction.
// A missing account is left untouched.
func (m *ReputationModel) AdjustScoreWithTx(ctx context.Context, tx bun.IDB, userID uint64, delta int64) error {
	if delta == 0 {
		return nil
	}

	result, err := tx.NewUpdate().
		Model((*types.ReputationAccount)(nil)).
		Set("rep = rep + ?", delta).
		Set("last_updated = ?", m.ledger.Now().UnixNano()).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to adjust score: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		m.logger.Warn("Score adjustment skipped for missing account",
			zap.Uint64("userID", userID),
			zap.Int64("delta", delta))
	}

	return nil
}

// SetScore replaces the user's score unconditionally.
func (m *ReputationModel) SetScore(ctx context.Context, userID uint64, displayName string, value int64) error {
	return m.ledger.Write(ctx, "set_score", func(ctx context.Context, tx bun.Tx) error {
		return m.SetScoreWithTx(ctx, tx, userID, displayName, value)
	})
}

// SetScoreWithTx replaces the user's score using the provided transaction.
func (m *ReputationModel) SetScoreWithTx(
	ctx context.Context, tx bun.IDB, userID uint64, displayName string, value int64,
) error {
	account := &types.ReputationAccount{
		UserID:      userID,
		UserName:    displayName,
		Rep:         value,
		LastUpdated: m.ledger.Now().UnixNano(),
	}

	_, err := tx.NewInsert().
		Model(account).
		On("CONFLICT (user_id) DO UPDATE").
		Set("user_name = COALESCE(NULLIF(EXCLUDED.user_name, ''), user_name)").
		Set("rep = EXCLUDED.rep").
		Set("last_updated = EXCLUDED.last_updated").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}

	return nil
}

// GetLeaderboard returns the highest scoring accounts.
func (m *ReputationModel) GetLeaderboard(ctx context.Context, limit int) ([]*types.ReputationAccount, error) {
	var accounts []*types.ReputationAccount

	err := m.ledger.DB().NewSelect().
		Model(&accounts).
		Order("rep DESC", "user_id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return accounts, nil
}

// GetAllAccounts returns every account ordered by user ID.
func (m *ReputationModel) GetAllAccounts(ctx context.Context) ([]*types.ReputationAccount, error) {
	var accounts []*types.ReputationAccount

	err := m.ledger.DB().NewSelect().
		Model(&accounts).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	return accounts, nil
}
