package maintenance

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/doom2286/Foxcom/internal/database/types"
	"go.uber.org/zap"
)

// Pruner runs a throttled prune pass.
type Pruner interface {
	PruneIfDue(ctx context.Context) (types.PruneResult, bool, error)
}

// Worker periodically prunes expired vote state in the background.
type Worker struct {
	pruner   Pruner
	interval time.Duration
	logger   *zap.Logger
	runs     atomic.Int64
	healthy  atomic.Bool
}

// New creates a new maintenance worker.
func New(pruner Pruner, interval time.Duration, logger *zap.Logger) *Worker {
	w := &Worker{
		pruner:   pruner,
		interval: interval,
		logger:   logger.Named("maintenance_worker"),
	}
	w.healthy.Store(true)

	return w
}

// Start runs the maintenance loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Warn("Maintenance worker disabled", zap.Duration("interval", w.interval))
		return
	}

	w.logger.Info("Maintenance worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Maintenance worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single prune check.
func (w *Worker) RunOnce(ctx context.Context) {
	w.runs.Add(1)

	result, ran, err := w.pruner.PruneIfDue(ctx)
	if err != nil {
		w.healthy.Store(false)
		w.logger.Error("Error pruning vote state", zap.Error(err))
		return
	}

	w.healthy.Store(true)

	if ran {
		w.logger.Debug("Prune pass completed",
			zap.Int64("messages", result.Messages),
			zap.Int64("votes", result.Votes))
	}
}

// Runs returns how many checks have been performed.
func (w *Worker) Runs() int64 {
	return w.runs.Load()
}

// Healthy reports whether the last check succeeded.
func (w *Worker) Healthy() bool {
	return w.healthy.Load()
}
