package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/doom2286/Foxcom/internal/database/dbtest"
	"github.com/doom2286/Foxcom/internal/rest"
	"github.com/doom2286/Foxcom/internal/rest/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newServer(t *testing.T) (*dbtest.Env, http.Handler) {
	t.Helper()

	env := dbtest.New(t)
	return env, rest.NewServer(env.Client, env.Metrics, zaptest.NewLogger(t))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestGetReputation(t *testing.T) {
	env, h := newServer(t)
	ctx := context.Background()

	require.NoError(t, env.Client.Service().Reputation().SetScore(ctx, 42, "fox", 70, "test"))

	rec := get(t, h, "/v1/users/42/reputation")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[types.ReputationResponse](t, rec)
	assert.Equal(t, uint64(42), resp.UserID)
	assert.Equal(t, "fox", resp.UserName)
	assert.Equal(t, int64(70), resp.Score)
	assert.Equal(t, "Veteran", resp.Tier)
	assert.Equal(t, 3, resp.Level)
	require.NotNil(t, resp.NextTier)
	assert.Equal(t, "Elite", *resp.NextTier)
	assert.Equal(t, int64(59), resp.Remaining)
	assert.False(t, resp.Blocked)
}

func TestGetReputationUnknownUser(t *testing.T) {
	_, h := newServer(t)

	rec := get(t, h, "/v1/users/7/reputation")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[types.ReputationResponse](t, rec)
	assert.Equal(t, int64(0), resp.Score)
	assert.Equal(t, "Recruit", resp.Tier)
}

func TestGetReputationBlocked(t *testing.T) {
	env, h := newServer(t)

	require.NoError(t, env.Client.Model().Block().BlockUser(context.Background(), 9, "spam", 1, "flooding"))

	resp := decode[types.ReputationResponse](t, get(t, h, "/v1/users/9/reputation"))
	assert.True(t, resp.Blocked)
}

func TestGetReputationInvalidID(t *testing.T) {
	_, h := newServer(t)

	for _, path := range []string{"/v1/users/abc/reputation", "/v1/users/0/reputation", "/v1/users/-4/reputation"} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "invalid user id", decode[types.ErrorResponse](t, rec).Error, path)
	}
}

func TestGetQuota(t *testing.T) {
	env, h := newServer(t)

	result, err := env.Client.Service().Quota().Attempt(context.Background(), 5, "fox")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	rec := get(t, h, "/v1/users/5/quota")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[types.QuotaResponse](t, rec)
	assert.Equal(t, 5, resp.MaxActions)
	assert.Equal(t, int64(3600), resp.WindowSeconds)
	assert.Equal(t, 4, resp.Remaining)
}

func TestGetLeaderboard(t *testing.T) {
	env, h := newServer(t)
	ctx := context.Background()
	reputation := env.Client.Service().Reputation()

	require.NoError(t, reputation.SetScore(ctx, 1, "low", 3, "test"))
	require.NoError(t, reputation.SetScore(ctx, 2, "high", 300, "test"))
	require.NoError(t, reputation.SetScore(ctx, 3, "mid", 40, "test"))

	resp := decode[types.LeaderboardResponse](t, get(t, h, "/v1/leaderboard?limit=2"))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, types.LeaderboardEntry{Rank: 1, UserID: 2, UserName: "high", Score: 300, Tier: "Legend"}, resp.Entries[0])
	assert.Equal(t, types.LeaderboardEntry{Rank: 2, UserID: 3, UserName: "mid", Score: 40, Tier: "Trusted"}, resp.Entries[1])

	resp = decode[types.LeaderboardResponse](t, get(t, h, "/v1/leaderboard?limit=0"))
	assert.Len(t, resp.Entries, 1)

	resp = decode[types.LeaderboardResponse](t, get(t, h, "/v1/leaderboard"))
	assert.Len(t, resp.Entries, 3)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/leaderboard?limit=ten").Code)
}

func TestGetStatus(t *testing.T) {
	env, h := newServer(t)
	ctx := context.Background()

	require.NoError(t, env.Client.Service().Vote().TrackMessage(ctx, 100, 1, "author"))
	_, err := env.Client.Service().Maintenance().Prune(ctx)
	require.NoError(t, err)

	rec := get(t, h, "/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[types.StatusResponse](t, rec)
	assert.Equal(t, 1, resp.Messages)
	assert.Equal(t, 0, resp.Votes)
	require.NotNil(t, resp.LastPruneAt)
	assert.True(t, resp.LastPruneAt.Equal(dbtest.Epoch))
}

func TestHealthAndMetrics(t *testing.T) {
	_, h := newServer(t)

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "foxcom_"))
}
