package bot_test

import (
	"context"
	"testing"

	"github.com/doom2286/Foxcom/internal/bot"
	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRepCommand(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	commands := bot.NewCommands(env.Client, zaptest.NewLogger(t))

	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 1, "fox", 70, "test"))

	reply, err := commands.Rep(ctx, 1, "fox")
	require.NoError(t, err)
	require.Len(t, reply.Embeds, 1)
	assert.Equal(t, "Veteran", reply.Embeds[0].Fields[2].Value)

	reply, err = commands.Rep(ctx, 2, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "0", reply.Embeds[0].Fields[1].Value)
}

func TestTopRepCommand(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	commands := bot.NewCommands(env.Client, zaptest.NewLogger(t))

	reply, err := commands.TopRep(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "⚠️ No reputation data yet.", reply.Content)

	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 1, "fox", 12, "test"))
	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 2, "wolf", 40, "test"))

	reply, err = commands.TopRep(ctx, 100)
	require.NoError(t, err)
	require.Len(t, reply.Embeds, 1)
	assert.Equal(t, "🏅 Reputation Leaderboard (Top 2)", reply.Embeds[0].Title)
	assert.Equal(t, "**1.** ★★ wolf — **40**\n**2.** ★ fox — **12**", reply.Embeds[0].Description)
}

func TestSetUserRepCommand(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	commands := bot.NewCommands(env.Client, zaptest.NewLogger(t))

	reply, err := commands.SetUserRep(ctx, "admin", 1, "fox", 2500)
	require.NoError(t, err)
	assert.Equal(t, "✅ Set reputation for **fox** to **2,500**.", reply.Content)

	score, err := env.Client.Service().Reputation().GetScore(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), score)

	reply, err = commands.SetUserRep(ctx, "admin", 1, "fox", 100001)
	require.NoError(t, err)
	assert.Equal(t, "❌ Reputation must be between -100,000 and 100,000.", reply.Content)

	score, err = env.Client.Service().Reputation().GetScore(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), score)
}

func TestBlockCommands(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	commands := bot.NewCommands(env.Client, zaptest.NewLogger(t))

	reply, err := commands.BlockUser(ctx, 100, 7, "spammer", "flooding")
	require.NoError(t, err)
	assert.Equal(t, "⛔ Blocked **spammer** from FoxCom commands.", reply.Content)

	blocked, err := commands.IsBlocked(ctx, 7)
	require.NoError(t, err)
	assert.True(t, blocked)

	reply, err = commands.UnblockUser(ctx, 7, "spammer")
	require.NoError(t, err)
	assert.Equal(t, "✅ Unblocked **spammer**.", reply.Content)

	reply, err = commands.UnblockUser(ctx, 7, "spammer")
	require.NoError(t, err)
	assert.Equal(t, "⚠️ **spammer** is not blocked.", reply.Content)

	blocked, err = commands.IsBlocked(ctx, 7)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestDBStatusCommand(t *testing.T) {
	env := dbtest.New(t)
	ctx := context.Background()
	commands := bot.NewCommands(env.Client, zaptest.NewLogger(t))

	require.NoError(t, env.Client.Service().Reputation().EnsureAccount(ctx, 1, "fox"))

	reply, err := commands.DBStatus(ctx)
	require.NoError(t, err)
	require.Len(t, reply.Embeds, 1)
	assert.Equal(t, "1", reply.Embeds[0].Fields[0].Value)
}
