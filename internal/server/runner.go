// Package server runs the background components: the periodic catalog
// sync scheduler and event log maintenance.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/iptvarr/internal/events"
	"github.com/vmunix/iptvarr/internal/syncer"
)

// Config for the background runner.
type Config struct {
	SyncInterval   time.Duration // how often to run a catalog-wide sync pass
	EventRetention time.Duration // events older than this are pruned
}

const (
	defaultSyncInterval   = 12 * time.Hour
	defaultEventRetention = 30 * 24 * time.Hour
	pruneInterval         = time.Hour
)

// Runner manages the background components.
type Runner struct {
	syncer   *syncer.Syncer
	eventLog *events.EventLog
	config   Config
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(sy *syncer.Syncer, eventLog *events.EventLog, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = defaultSyncInterval
	}
	if cfg.EventRetention <= 0 {
		cfg.EventRetention = defaultEventRetention
	}
	return &Runner{
		syncer:   sy,
		eventLog: eventLog,
		config:   cfg,
		logger:   logger.With("component", "runner"),
	}
}

// Run starts the background loops. It blocks until the context is
// canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.syncLoop(ctx) })
	if r.eventLog != nil {
		g.Go(func() error { return r.pruneLoop(ctx) })
	}

	return g.Wait()
}

// syncLoop runs one catalog-wide pass immediately, then on every tick.
// Passes are unforced, so sources that synced recently are skipped.
func (r *Runner) syncLoop(ctx context.Context) error {
	r.syncAll(ctx)

	ticker := time.NewTicker(r.config.SyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.syncAll(ctx)
		}
	}
}

func (r *Runner) syncAll(ctx context.Context) {
	if err := r.syncer.SyncAll(ctx, false); err != nil && !errors.Is(err, context.Canceled) {
		// A failed pass is retried on the next tick.
		r.logger.Error("scheduled sync failed", "error", err)
	}
}

func (r *Runner) pruneLoop(ctx context.Context) error {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := r.eventLog.Prune(r.config.EventRetention)
			if err != nil {
				r.logger.Error("event prune failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.Info("pruned events", "count", n)
			}
		}
	}
}
