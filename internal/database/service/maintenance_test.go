package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMarker(t *testing.T, env *dbtest.Env, raw *string) {
	t.Helper()

	_, err := env.Client.DB().NewUpdate().
		Model((*types.MaintenanceMarker)(nil)).
		Set("last_prune_at = ?", raw).
		Where("id = ?", types.MaintenanceMarkerID).
		Exec(context.Background())
	require.NoError(t, err)
}

func TestShouldPrune(t *testing.T) {
	env := dbtest.New(t)
	maintenance := env.Client.Service().Maintenance()
	ctx := context.Background()

	// Seeded marker is empty
	due, err := maintenance.ShouldPrune(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, due)

	_, err = maintenance.Prune(ctx)
	require.NoError(t, err)

	due, err = maintenance.ShouldPrune(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, due)

	env.Clock.Advance(9 * time.Minute)
	due, err = maintenance.ShouldPrune(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, due)

	env.Clock.Advance(time.Minute)
	due, err = maintenance.ShouldPrune(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, due)
}

func TestShouldPruneFailsOpen(t *testing.T) {
	env := dbtest.New(t)
	maintenance := env.Client.Service().Maintenance()
	ctx := context.Background()

	garbage := "not a timestamp"
	empty := "  "

	for _, raw := range []*string{&garbage, &empty, nil} {
		setMarker(t, env, raw)

		due, err := maintenance.ShouldPrune(ctx, 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, due)
	}

	// Missing row
	_, err := env.Client.DB().NewDelete().Model((*types.MaintenanceMarker)(nil)).Where("1 = 1").Exec(ctx)
	require.NoError(t, err)

	due, err := maintenance.ShouldPrune(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, due)

	// Prune recreates it
	_, err = maintenance.Prune(ctx)
	require.NoError(t, err)

	due, err = maintenance.ShouldPrune(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, due)
}

func TestPrune(t *testing.T) {
	env := dbtest.New(t)
	svc := env.Client.Service()
	ctx := context.Background()

	require.NoError(t, svc.Vote().TrackMessage(ctx, 1, 100, "old"))
	_, err := svc.Vote().CastVote(ctx, 1, 200, types.VoteUp)
	require.NoError(t, err)
	_, err = svc.Vote().CastVote(ctx, 1, 201, types.VoteDown)
	require.NoError(t, err)

	env.Clock.Advance(3 * time.Hour)

	require.NoError(t, svc.Vote().TrackMessage(ctx, 2, 100, "fresh"))
	_, err = svc.Vote().CastVote(ctx, 2, 200, types.VoteUp)
	require.NoError(t, err)

	env.Clock.Advance(time.Hour + time.Second)

	result, err := svc.Maintenance().Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Messages)
	assert.Equal(t, int64(2), result.Votes)
	assert.Equal(t, env.Clock.Now(), result.At)

	status, err := svc.Maintenance().Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Messages)
	assert.Equal(t, 1, status.Votes)
	require.NotNil(t, status.LastPruneAt)
	assert.True(t, status.LastPruneAt.Equal(env.Clock.Now()))
	assert.Equal(t, env.Clock.Now().Format(time.RFC3339Nano), status.LastPruneRaw)

	// Second pass is a no-op
	result, err = svc.Maintenance().Prune(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Messages)
	assert.Zero(t, result.Votes)
}

func TestPruneIfDue(t *testing.T) {
	env := dbtest.New(t)
	maintenance := env.Client.Service().Maintenance()
	ctx := context.Background()

	_, ran, err := maintenance.PruneIfDue(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	_, ran, err = maintenance.PruneIfDue(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	env.Clock.Advance(maintenance.Interval())

	_, ran, err = maintenance.PruneIfDue(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestStatusCounts(t *testing.T) {
	env := dbtest.New(t)
	svc := env.Client.Service()
	ctx := context.Background()

	require.NoError(t, svc.Reputation().EnsureAccount(ctx, 1, "a"))
	require.NoError(t, svc.Reputation().EnsureAccount(ctx, 2, "b"))
	_, err := svc.Quota().CheckAndConsume(ctx, 1, 5, time.Hour)
	require.NoError(t, err)
	require.NoError(t, env.Client.Model().Block().BlockUser(ctx, 3, "c", 1, ""))

	status, err := svc.Maintenance().Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Users)
	assert.Equal(t, 1, status.Actions)
	assert.Equal(t, 1, status.Blocked)
	assert.Zero(t, status.Messages)
	assert.Nil(t, status.LastPruneAt)
	assert.Empty(t, status.LastPruneRaw)
}
