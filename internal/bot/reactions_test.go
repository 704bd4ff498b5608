package bot_test

import (
	"context"
	"testing"

	"github.com/doom2286/Foxcom/internal/bot"
	"github.com/doom2286/Foxcom/internal/bot/constants"
	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReactionHandler(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	h := bot.NewReactionHandler(env.Client, zaptest.NewLogger(t))

	require.NoError(t, env.Client.Service().Vote().TrackMessage(ctx, 900, 1, "author"))

	outcome, err := h.Handle(ctx, "🦊", 900, 2, "voter", false)
	require.NoError(t, err)
	assert.Equal(t, types.ReactionOutcome{}, outcome)

	outcome, err = h.Handle(ctx, constants.ThumbsUp, 900, 2, "voter", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), outcome.Delta)
	assert.Equal(t, uint64(1), outcome.AuthorID)

	outcome, err = h.Handle(ctx, constants.ThumbsDown, 900, 2, "voter", false)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), outcome.Delta)

	score, err := env.Client.Service().Reputation().GetScore(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), score)

	outcome, err = h.Handle(ctx, constants.ThumbsDown, 900, 2, "", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), outcome.Delta)

	score, err = env.Client.Service().Reputation().GetScore(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestReactionHandlerUntracked(t *testing.T) {
	env := dbtest.New(t)
	h := bot.NewReactionHandler(env.Client, zaptest.NewLogger(t))

	outcome, err := h.Handle(context.Background(), constants.ThumbsUp, 12345, 2, "voter", false)
	require.NoError(t, err)
	assert.False(t, outcome.Tracked)
	assert.Zero(t, outcome.Delta)
}
