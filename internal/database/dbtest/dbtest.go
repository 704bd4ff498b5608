// Package dbtest opens throwaway ledgers for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/doom2286/Foxcom/internal/clock"
	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/metrics"
	"github.com/doom2286/Foxcom/internal/setup/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Epoch is the starting time of every fake clock handed out by New.
var Epoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // -

// Env bundles a migrated client with the fake clock driving it.
type Env struct {
	Client  database.Client
	Clock   *clock.Fake
	Metrics *metrics.Metrics
	Config  *config.CommonConfig
}

// New opens a migrated database in a temporary directory. The optional mutate
// function can adjust the configuration before the connection is opened.
func New(t *testing.T, mutate ...func(*config.CommonConfig)) *Env {
	t.Helper()

	cfg := config.DefaultCommon()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "ledger.db")
	cfg.SQLite.LockTimeout = 2000

	for _, fn := range mutate {
		fn(&cfg)
	}

	fake := clock.NewFake(Epoch)
	m := metrics.New()

	client, err := database.NewConnection(
		context.Background(), &cfg, zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)), true,
		database.WithClock(fake), database.WithMetrics(m),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	return &Env{Client: client, Clock: fake, Metrics: m, Config: &cfg}
}
