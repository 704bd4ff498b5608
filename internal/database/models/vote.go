package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// DefaultVoteTTL is how long a broadcast stays votable.
const DefaultVoteTTL = 4 * time.Hour

// VoteModel handles database operations for votable messages and their votes.
type VoteModel struct {
	ledger *ledger.Ledger
	ttl    time.Duration
	logger *zap.Logger
}

// NewVote creates a new VoteModel instance.
func NewVote(l *ledger.Ledger, ttl time.Duration, logger *zap.Logger) *VoteModel {
	if ttl <= 0 {
		ttl = DefaultVoteTTL
	}

	return &VoteModel{
		ledger: l,
		ttl:    ttl,
		logger: logger.Named("db_vote"),
	}
}

// TTL returns how long a message stays votable.
func (m *VoteModel) TTL() time.Duration {
	return m.ttl
}

// IsWithinWindow reports whether a message created at createdAt (unix nanos)
// can still receive votes.
func (m *VoteModel) IsWithinWindow(createdAt int64) bool {
	return m.ledger.Now().UnixNano()-createdAt <= m.ttl.Nanoseconds()
}

// TrackMessage registers a votable message stamped with the current time.
// An existing row with the same id is replaced.
func (m *VoteModel) TrackMessage(ctx context.Context, messageID, authorID uint64, authorName string) error {
	return m.ledger.Write(ctx, "track_message", func(ctx context.Context, tx bun.Tx) error {
		return m.TrackMessageWithTx(ctx, tx, messageID, authorID, authorName)
	})
}

// TrackMessageWithTx registers a votable message using the provided transaction.
func (m *VoteModel) TrackMessageWithTx(
	ctx context.Context, tx bun.IDB, messageID, authorID uint64, authorName string,
) error {
	msg := &types.VotableMessage{
		MessageID:  messageID,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  m.ledger.Now().UnixNano(),
	}

	_, err := tx.NewInsert().
		Model(msg).
		On("CONFLICT (message_id) DO UPDATE").
		Set("author_id = EXCLUDED.author_id").
		Set("author_name = EXCLUDED.author_name").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to track message: %w", err)
	}

	return nil
}

// LookupMessage returns the tracked message if it exists and is still within
// the vote window. Expired rows are reported as not found.
func (m *VoteModel) LookupMessage(ctx context.Context, messageID uint64) (*types.VotableMessage, bool, error) {
	msg, found, err := m.GetMessageWithTx(ctx, m.ledger.DB(), messageID)
	if err != nil || !found {
		return nil, false, err
	}

	if !m.IsWithinWindow(msg.CreatedAt) {
		return nil, false, nil
	}

	return msg, true, nil
}

// GetMessageWithTx returns the stored row regardless of its age.
func (m *VoteModel) GetMessageWithTx(
	ctx context.Context, idb bun.IDB, messageID uint64,
) (*types.VotableMessage, bool, error) {
	var msg types.VotableMessage

	err := idb.NewSelect().
		Model(&msg).
		Where("message_id = ?", messageID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get message: %w", err)
	}

	return &msg, true, nil
}

// GetVoteWithTx returns the voter's current vote on a message, or 0 if none.
func (m *VoteModel) GetVoteWithTx(ctx context.Context, idb bun.IDB, messageID, voterID uint64) (int8, error) {
	var value int8

	err := idb.NewSelect().
		Model((*types.Vote)(nil)).
		Column("vote").
		Where("message_id = ?", messageID).
		Where("voter_id = ?", voterID).
		Scan(ctx, &value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get vote: %w", err)
	}

	return value, nil
}

// CastVote records a vote and returns the score change owed to the author.
// Self-votes, repeated votes and votes on unknown or expired messages return 0.
func (m *VoteModel) CastVote(ctx context.Context, messageID, voterID uint64, value int8) (int64, error) {
	if !types.ValidVote(value) {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidVote, value)
	}

	var delta int64

	err := m.ledger.Write(ctx, "cast_vote", func(ctx context.Context, tx bun.Tx) error {
		msg, found, err := m.GetMessageWithTx(ctx, tx, messageID)
		if err != nil || !found || !m.IsWithinWindow(msg.CreatedAt) {
			return err
		}

		delta, err = m.CastVoteWithTx(ctx, tx, msg, voterID, value)
		return err
	})
	if err != nil {
		return 0, err
	}

	return delta, nil
}

// CastVoteWithTx records a vote on msg using the provided transaction.
func (m *VoteModel) CastVoteWithTx(
	ctx context.Context, tx bun.IDB, msg *types.VotableMessage, voterID uint64, value int8,
) (int64, error) {
	if !types.ValidVote(value) {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidVote, value)
	}

	if voterID == msg.AuthorID {
		return 0, nil
	}

	prior, err := m.GetVoteWithTx(ctx, tx, msg.MessageID, voterID)
	if err != nil {
		return 0, err
	}

	if prior == value {
		return 0, nil
	}

	_, err = tx.NewInsert().
		Model(&types.Vote{MessageID: msg.MessageID, VoterID: voterID, Vote: value}).
		On("CONFLICT (message_id, voter_id) DO UPDATE").
		Set("vote = EXCLUDED.vote").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to set vote: %w", err)
	}

	return int64(value) - int64(prior), nil
}

// WithdrawVote removes a vote if it still holds the expected value and returns
// the score change owed to the author. A mismatch returns 0.
func (m *VoteModel) WithdrawVote(ctx context.Context, messageID, voterID uint64, expected int8) (int64, error) {
	if !types.ValidVote(expected) {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidVote, expected)
	}

	var delta int64

	err := m.ledger.Write(ctx, "withdraw_vote", func(ctx context.Context, tx bun.Tx) error {
		msg, found, err := m.GetMessageWithTx(ctx, tx, messageID)
		if err != nil || !found || !m.IsWithinWindow(msg.CreatedAt) {
			return err
		}

		delta, err = m.WithdrawVoteWithTx(ctx, tx, msg.MessageID, voterID, expected)
		return err
	})
	if err != nil {
		return 0, err
	}

	return delta, nil
}

// WithdrawVoteWithTx removes a vote using the provided transaction.
func (m *VoteModel) WithdrawVoteWithTx(
	ctx context.Context, tx bun.IDB, messageID, voterID uint64, expected int8,
) (int64, error) {
	current, err := m.GetVoteWithTx(ctx, tx, messageID, voterID)
	if err != nil {
		return 0, err
	}

	if current == 0 || current != expected {
		return 0, nil
	}

	_, err = tx.NewDelete().
		Model((*types.Vote)(nil)).
		Where("message_id = ?", messageID).
		Where("voter_id = ?", voterID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete vote: %w", err)
	}

	return -int64(expected), nil
}

// DeleteMessageWithTx removes a message and all of its votes.
func (m *VoteModel) DeleteMessageWithTx(ctx context.Context, tx bun.IDB, messageID uint64) error {
	_, err := tx.NewDelete().
		Model((*types.Vote)(nil)).
		Where("message_id = ?", messageID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete message votes: %w", err)
	}

	_, err = tx.NewDelete().
		Model((*types.VotableMessage)(nil)).
		Where("message_id = ?", messageID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

// DeleteExpiredWithTx removes every message older than the vote window and
// its votes, using one cutoff for both tables.
func (m *VoteModel) DeleteExpiredWithTx(ctx context.Context, tx bun.IDB, now time.Time) (int64, int64, error) {
	cutoff := now.UnixNano() - m.ttl.Nanoseconds()

	expired := tx.NewSelect().
		Model((*types.VotableMessage)(nil)).
		Column("message_id").
		Where("created_at < ?", cutoff)

	voteResult, err := tx.NewDelete().
		Model((*types.Vote)(nil)).
		Where("message_id IN (?)", expired).
		Exec(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete expired votes: %w", err)
	}

	msgResult, err := tx.NewDelete().
		Model((*types.VotableMessage)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete expired messages: %w", err)
	}

	votes, _ := voteResult.RowsAffected()
	messages, _ := msgResult.RowsAffected()

	return messages, votes, nil
}
