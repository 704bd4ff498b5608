package service

import (
	"context"
	"fmt"
	"time"

	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/models"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteService handles vote-related business logic.
type VoteService struct {
	ledger      *ledger.Ledger
	model       *models.VoteModel
	reputation  *models.ReputationModel
	block       *models.BlockModel
	maintenance *MaintenanceService
	logger      *zap.Logger
}

// NewVote creates a new vote service.
func NewVote(
	l *ledger.Ledger,
	model *models.VoteModel,
	reputation *models.ReputationModel,
	block *models.BlockModel,
	maintenance *MaintenanceService,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		ledger:      l,
		model:       model,
		reputation:  reputation,
		block:       block,
		maintenance: maintenance,
		logger:      logger.Named("vote_service"),
	}
}

// TrackMessage registers a sent broadcast as votable.
func (s *VoteService) TrackMessage(ctx context.Context, messageID, authorID uint64, authorName string) error {
	return s.model.TrackMessage(ctx, messageID, authorID, authorName)
}

// LookupMessage returns a tracked message that is still votable.
func (s *VoteService) LookupMessage(ctx context.Context, messageID uint64) (*types.VotableMessage, bool, error) {
	return s.model.LookupMessage(ctx, messageID)
}

// IsWithinWindow reports whether a message created at createdAt is still votable.
func (s *VoteService) IsWithinWindow(createdAt time.Time) bool {
	return s.model.IsWithinWindow(createdAt.UnixNano())
}

// CastVote records a vote and returns the author's score change without applying it.
func (s *VoteService) CastVote(ctx context.Context, messageID, voterID uint64, value int8) (int64, error) {
	return s.model.CastVote(ctx, messageID, voterID, value)
}

// WithdrawVote removes a vote and returns the author's score change without applying it.
func (s *VoteService) WithdrawVote(ctx context.Context, messageID, voterID uint64, expected int8) (int64, error) {
	return s.model.WithdrawVote(ctx, messageID, voterID, expected)
}

// ApplyReaction handles one reaction add or remove end to end. The vote change
// and the author's score change commit together. Expired messages are dropped
// without touching any score, and a prune pass follows when one is due.
func (s *VoteService) ApplyReaction(ctx context.Context, event types.ReactionEvent) (types.ReactionOutcome, error) {
	var outcome types.ReactionOutcome

	if !types.ValidVote(event.Value) {
		return outcome, fmt.Errorf("%w: %d", types.ErrInvalidVote, event.Value)
	}

	blocked, err := s.block.IsBlocked(ctx, event.UserID)
	if err != nil {
		return outcome, err
	}

	if blocked {
		s.logger.Debug("Ignoring reaction from blocked user", zap.Uint64("userID", event.UserID))
		return outcome, nil
	}

	// Cheap unlocked check so reactions on untracked messages never take the lock
	if _, found, err := s.model.GetMessageWithTx(ctx, s.ledger.DB(), event.MessageID); err != nil || !found {
		return outcome, err
	}

	err = s.ledger.Write(ctx, "apply_reaction", func(ctx context.Context, tx bun.Tx) error {
		outcome = types.ReactionOutcome{}

		msg, found, err := s.model.GetMessageWithTx(ctx, tx, event.MessageID)
		if err != nil || !found {
			return err
		}

		outcome.Tracked = true
		outcome.AuthorID = msg.AuthorID

		if !s.model.IsWithinWindow(msg.CreatedAt) {
			outcome.Expired = true
			return s.model.DeleteMessageWithTx(ctx, tx, msg.MessageID)
		}

		var delta int64
		if event.Removed {
			delta, err = s.model.WithdrawVoteWithTx(ctx, tx, msg.MessageID, event.UserID, event.Value)
		} else {
			delta, err = s.model.CastVoteWithTx(ctx, tx, msg, event.UserID, event.Value)
		}

		if err != nil || delta == 0 {
			return err
		}

		if err := s.reputation.EnsureAccountWithTx(ctx, tx, msg.AuthorID, msg.AuthorName); err != nil {
			return err
		}

		if err := s.reputation.AdjustScoreWithTx(ctx, tx, msg.AuthorID, delta); err != nil {
			return err
		}

		outcome.Delta = delta

		return nil
	})
	if err != nil {
		return types.ReactionOutcome{}, err
	}

	kind := "cast"
	if event.Removed {
		kind = "withdraw"
	}
	s.ledger.Metrics().VoteApplied(kind, outcome.Delta)

	if outcome.Delta != 0 {
		s.logger.Debug("Applied vote",
			zap.Uint64("messageID", event.MessageID),
			zap.Uint64("voterID", event.UserID),
			zap.Uint64("authorID", outcome.AuthorID),
			zap.Int64("delta", outcome.Delta))
	}

	if outcome.Expired {
		if _, err := s.maintenance.Prune(ctx); err != nil {
			s.logger.Warn("Prune after expired reaction failed", zap.Error(err))
		}
	} else if outcome.Tracked {
		if _, _, err := s.maintenance.PruneIfDue(ctx); err != nil {
			s.logger.Warn("Opportunistic prune failed", zap.Error(err))
		}
	}

	return outcome, nil
}
