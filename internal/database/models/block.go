package models

import (
	"context"
	"fmt"

	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// BlockModel handles database operations for blocked users.
type BlockModel struct {
	ledger *ledger.Ledger
	logger *zap.Logger
}

// NewBlock creates a new BlockModel instance.
func NewBlock(l *ledger.Ledger, logger *zap.Logger) *BlockModel {
	return &BlockModel{
		ledger: l,
		logger: logger.Named("db_block"),
	}
}

// BlockUser creates or updates a block record.
func (m *BlockModel) BlockUser(ctx context.Context, userID uint64, userName string, blockedBy uint64, reason string) error {
	record := &types.BlockedUser{
		UserID:    userID,
		UserName:  userName,
		BlockedBy: blockedBy,
		BlockedAt: m.ledger.Now().UnixNano(),
		Reason:    reason,
	}

	return m.ledger.Write(ctx, "block_user", func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(record).
			On("CONFLICT (user_id) DO UPDATE").
			Set("user_name = EXCLUDED.user_name").
			Set("blocked_by = EXCLUDED.blocked_by").
			Set("blocked_at = EXCLUDED.blocked_at").
			Set("reason = EXCLUDED.reason").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to block user: %w", err)
		}

		return nil
	})
}

// UnblockUser removes a block record.
// Returns true if a block was removed, false if the user wasn't blocked.
func (m *BlockModel) UnblockUser(ctx context.Context, userID uint64) (bool, error) {
	var removed bool

	err := m.ledger.Write(ctx, "unblock_user", func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewDelete().
			Model((*types.BlockedUser)(nil)).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to unblock user: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		removed = affected > 0

		return nil
	})

	return removed, err
}

// IsBlocked checks if a user is blocked.
func (m *BlockModel) IsBlocked(ctx context.Context, userID uint64) (bool, error) {
	return m.IsBlockedWithTx(ctx, m.ledger.DB(), userID)
}

// IsBlockedWithTx checks if a user is blocked using the provided connection.
func (m *BlockModel) IsBlockedWithTx(ctx context.Context, idb bun.IDB, userID uint64) (bool, error) {
	exists, err := idb.NewSelect().
		Model((*types.BlockedUser)(nil)).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check if user is blocked: %w", err)
	}

	return exists, nil
}

// GetBlockedUsers returns all block records, newest first.
func (m *BlockModel) GetBlockedUsers(ctx context.Context) ([]*types.BlockedUser, error) {
	var records []*types.BlockedUser

	err := m.ledger.DB().NewSelect().
		Model(&records).
		Order("blocked_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocked users: %w", err)
	}

	return records, nil
}
