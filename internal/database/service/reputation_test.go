package service_test

import (
	"context"
	"testing"

	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScoreMissingAccount(t *testing.T) {
	env := dbtest.New(t)

	s, err := env.Client.Service().Reputation().GetScore(context.Background(), 404)
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestEnsureAccount(t *testing.T) {
	env := dbtest.New(t)
	rep := env.Client.Service().Reputation()
	ctx := context.Background()

	require.NoError(t, rep.EnsureAccount(ctx, 1, "first"))
	require.NoError(t, rep.AdjustScore(ctx, 1, 4))
	require.NoError(t, rep.EnsureAccount(ctx, 1, "renamed"))
	require.NoError(t, rep.EnsureAccount(ctx, 1, ""))

	account, found, err := env.Client.Model().Reputation().GetAccount(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "renamed", account.UserName)
	assert.Equal(t, int64(4), account.Rep)
	assert.True(t, env.Clock.Now().Equal(account.UpdatedAt()))
}

func TestAdjustScore(t *testing.T) {
	env := dbtest.New(t)
	rep := env.Client.Service().Reputation()
	ctx := context.Background()

	require.NoError(t, rep.EnsureAccount(ctx, 1, "fox"))
	require.NoError(t, rep.AdjustScore(ctx, 1, 5))
	require.NoError(t, rep.AdjustScore(ctx, 1, -8))

	assert.Equal(t, int64(-3), score(t, env, 1))

	// Without an account the adjustment is dropped
	require.NoError(t, rep.AdjustScore(ctx, 2, 5))
	assert.Zero(t, score(t, env, 2))
}

func TestSetScore(t *testing.T) {
	env := dbtest.New(t)
	rep := env.Client.Service().Reputation()
	ctx := context.Background()

	require.NoError(t, rep.SetScore(ctx, 1, "fox", 250, "admin"))
	assert.Equal(t, int64(250), score(t, env, 1))

	require.NoError(t, rep.SetScore(ctx, 1, "fox", -100000, "admin"))
	assert.Equal(t, int64(-100000), score(t, env, 1))

	err := rep.SetScore(ctx, 1, "fox", 100001, "admin")
	require.ErrorIs(t, err, types.ErrScoreOutOfRange)
	assert.Equal(t, int64(-100000), score(t, env, 1))

	err = rep.SetScore(ctx, 2, "new", -100001, "admin")
	require.ErrorIs(t, err, types.ErrScoreOutOfRange)

	_, found, err := env.Client.Model().Reputation().GetAccount(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLeaderboard(t *testing.T) {
	env := dbtest.New(t)
	rep := env.Client.Service().Reputation()
	ctx := context.Background()

	for i := uint64(1); i <= 30; i++ {
		require.NoError(t, rep.SetScore(ctx, i, "user", int64(i*10), "seed"))
	}

	top, err := rep.GetLeaderboard(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, uint64(30), top[0].UserID)
	assert.Equal(t, uint64(29), top[1].UserID)
	assert.Equal(t, uint64(28), top[2].UserID)

	top, err = rep.GetLeaderboard(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, top, 25)

	top, err = rep.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestGetCard(t *testing.T) {
	env := dbtest.New(t)
	rep := env.Client.Service().Reputation()
	ctx := context.Background()

	card, err := rep.GetCard(ctx, 9)
	require.NoError(t, err)
	assert.Zero(t, card.Score)
	assert.Equal(t, "Recruit", card.Tier.Name)
	require.NotNil(t, card.Milestone.NextAt)
	assert.Equal(t, int64(10), *card.Milestone.NextAt)

	require.NoError(t, rep.SetScore(ctx, 9, "vet", 70, "admin"))

	card, err = rep.GetCard(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "vet", card.UserName)
	assert.Equal(t, 3, card.Tier.Level)
	assert.Equal(t, "Veteran", card.Tier.Name)
	assert.Equal(t, int64(59), card.Milestone.Remaining(card.Score))
}
