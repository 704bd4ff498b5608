package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MaintenanceModel handles the prune marker and prune passes.
type MaintenanceModel struct {
	ledger *ledger.Ledger
	votes  *VoteModel
	logger *zap.Logger
}

// NewMaintenance creates a new MaintenanceModel instance.
func NewMaintenance(l *ledger.Ledger, votes *VoteModel, logger *zap.Logger) *MaintenanceModel {
	return &MaintenanceModel{
		ledger: l,
		votes:  votes,
		logger: logger.Named("db_maintenance"),
	}
}

// GetLastPrune returns the raw marker value, or nil if none is recorded.
func (m *MaintenanceModel) GetLastPrune(ctx context.Context) (*string, error) {
	var marker types.MaintenanceMarker

	err := m.ledger.DB().NewSelect().
		Model(&marker).
		Where("id = ?", types.MaintenanceMarkerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get maintenance marker: %w", err)
	}

	return marker.LastPruneAt, nil
}

// ShouldPrune reports whether a prune pass is due. A missing, empty or
// unparsable marker counts as due.
func (m *MaintenanceModel) ShouldPrune(ctx context.Context, minInterval time.Duration) (bool, error) {
	raw, err := m.GetLastPrune(ctx)
	if err != nil {
		return false, err
	}

	last, ok := ParseMarker(raw)
	if !ok {
		return true, nil
	}

	return m.ledger.Now().Sub(last) >= minInterval, nil
}

// Prune deletes every expired message and its votes and stamps the marker,
// all in one locked transaction.
func (m *MaintenanceModel) Prune(ctx context.Context) (types.PruneResult, error) {
	var result types.PruneResult

	err := m.ledger.Write(ctx, "prune", func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = m.PruneWithTx(ctx, tx)
		return err
	})
	if err != nil {
		return types.PruneResult{}, err
	}

	m.ledger.Metrics().Pruned(result.Messages, result.Votes)

	return result, nil
}

// PruneWithTx runs a prune pass using the provided transaction.
func (m *MaintenanceModel) PruneWithTx(ctx context.Context, tx bun.IDB) (types.PruneResult, error) {
	now := m.ledger.Now()

	messages, votes, err := m.votes.DeleteExpiredWithTx(ctx, tx, now)
	if err != nil {
		return types.PruneResult{}, err
	}

	if err := m.SetLastPruneWithTx(ctx, tx, formatMarker(now)); err != nil {
		return types.PruneResult{}, err
	}

	return types.PruneResult{Messages: messages, Votes: votes, At: now}, nil
}

// SetLastPruneWithTx writes the raw marker value, recreating the row if needed.
func (m *MaintenanceModel) SetLastPruneWithTx(ctx context.Context, tx bun.IDB, raw *string) error {
	_, err := tx.NewInsert().
		Model(&types.MaintenanceMarker{ID: types.MaintenanceMarkerID, LastPruneAt: raw}).
		On("CONFLICT (id) DO UPDATE").
		Set("last_prune_at = EXCLUDED.last_prune_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update maintenance marker: %w", err)
	}

	return nil
}

// GetTableCounts returns row counts for every ledger table.
func (m *MaintenanceModel) GetTableCounts(ctx context.Context) (*types.TableCounts, error) {
	db := m.ledger.DB()
	counts := &types.TableCounts{}

	tables := []struct {
		model any
		dest  *int
	}{
		{(*types.ReputationAccount)(nil), &counts.Users},
		{(*types.VotableMessage)(nil), &counts.Messages},
		{(*types.Vote)(nil), &counts.Votes},
		{(*types.BroadcastAction)(nil), &counts.Actions},
		{(*types.BlockedUser)(nil), &counts.Blocked},
	}

	for _, table := range tables {
		count, err := db.NewSelect().Model(table.model).Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %T: %w", table.model, err)
		}
		*table.dest = count
	}

	raw, err := m.GetLastPrune(ctx)
	if err != nil {
		return nil, err
	}

	if raw != nil {
		counts.LastPruneRaw = *raw
	}

	if last, ok := ParseMarker(raw); ok {
		counts.LastPruneAt = &last
	}

	return counts, nil
}

// ParseMarker parses a stored marker value.
func ParseMarker(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}

	value := strings.TrimSpace(*raw)
	if value == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}

	return t.UTC(), true
}

func formatMarker(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
