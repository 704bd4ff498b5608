// Package ledger provides the process-wide write discipline for the
// reputation database. Every mutation runs inside Write, which holds a single
// slot for the duration of one transaction. Reads use DB directly.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/doom2286/Foxcom/internal/clock"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/metrics"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultLockTimeout bounds how long Write waits for the lock.
const DefaultLockTimeout = 30 * time.Second

// Ledger serializes all writes against the database.
type Ledger struct {
	db      *bun.DB
	slot    chan struct{}
	timeout time.Duration
	clock   clock.Clock
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *zap.Logger
}

// New creates a Ledger over db. A non-positive timeout uses DefaultLockTimeout.
func New(db *bun.DB, clk clock.Clock, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Ledger {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if clk == nil {
		clk = clock.Real{}
	}

	return &Ledger{
		db:      db,
		slot:    make(chan struct{}, 1),
		timeout: timeout,
		clock:   clk,
		metrics: m,
		tracer:  otel.Tracer("github.com/doom2286/Foxcom/internal/database/ledger"),
		logger:  logger.Named("ledger"),
	}
}

// DB returns the connection pool for unlocked reads.
func (l *Ledger) DB() *bun.DB {
	return l.db
}

// Now returns the current time from the ledger's clock.
func (l *Ledger) Now() time.Time {
	return l.clock.Now()
}

// Clock returns the ledger's time source.
func (l *Ledger) Clock() clock.Clock {
	return l.clock
}

// Metrics returns the instruments writes are recorded into. May be nil.
func (l *Ledger) Metrics() *metrics.Metrics {
	return l.metrics
}

// Write acquires the write lock, runs fn in one transaction and commits.
// It returns types.ErrLedgerBusy if the lock is not acquired within the
// configured timeout. fn must not block on anything outside the database.
func (l *Ledger) Write(ctx context.Context, name string, fn func(ctx context.Context, tx bun.Tx) error) error {
	ctx, span := l.tracer.Start(ctx, "ledger."+name, trace.WithAttributes(attribute.String("ledger.op", name)))
	defer span.End()

	if err := l.acquire(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	start := time.Now()
	defer func() {
		<-l.slot
		l.metrics.LedgerWrite(time.Since(start))
	}()

	err := l.db.RunInTx(ctx, nil, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

func (l *Ledger) acquire(ctx context.Context) error {
	select {
	case l.slot <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case l.slot <- struct{}{}:
		return nil
	case <-timer.C:
		l.metrics.LedgerBusy()
		l.logger.Warn("Timed out waiting for write lock", zap.Duration("timeout", l.timeout))
		return types.ErrLedgerBusy
	case <-ctx.Done():
		return fmt.Errorf("waiting for write lock: %w", ctx.Err())
	}
}
