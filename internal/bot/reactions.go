package bot

import (
	"context"

	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/database/dbretry"
	"github.com/doom2286/Foxcom/internal/database/types"
	"go.uber.org/zap"
)

// VoteForEmoji maps a reaction emoji to a vote value.
func VoteForEmoji(name string) (int8, bool) {
	switch name {
	case constants.ThumbsUp:
		return types.VoteUp, true
	case constants.ThumbsDown:
		return types.VoteDown, true
	default:
		return 0, false
	}
}

// ReactionHandler turns reaction add and remove events into votes.
type ReactionHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewReactionHandler creates a new reaction handler.
func NewReactionHandler(db database.Client, logger *zap.Logger) *ReactionHandler {
	return &ReactionHandler{
		db:     db,
		logger: logger.Named("reactions"),
	}
}

// Handle applies one reaction. Unrelated emoji are ignored.
func (h *ReactionHandler) Handle(
	ctx context.Context, emoji string, messageID, userID uint64, userName string, removed bool,
) (types.ReactionOutcome, error) {
	value, ok := VoteForEmoji(emoji)
	if !ok {
		return types.ReactionOutcome{}, nil
	}

	event := types.ReactionEvent{
		MessageID: messageID,
		UserID:    userID,
		UserName:  userName,
		Value:     value,
		Removed:   removed,
	}

	outcome, err := dbretry.Operation(ctx, func(ctx context.Context) (types.ReactionOutcome, error) {
		return h.db.Service().Vote().ApplyReaction(ctx, event)
	})
	if err != nil {
		h.logger.Error("Failed to apply reaction",
			zap.Uint64("messageID", messageID),
			zap.Uint64("userID", userID),
			zap.Bool("removed", removed),
			zap.Error(err))
		return outcome, err
	}

	if outcome.Delta != 0 {
		h.logger.Debug("Reaction changed reputation",
			zap.Uint64("messageID", messageID),
			zap.Uint64("authorID", outcome.AuthorID),
			zap.Int64("delta", outcome.Delta))
	}

	return outcome, nil
}
