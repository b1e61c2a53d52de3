// Package syncer reconciles freshly fetched provider catalogs against
// the persisted snapshot, applying inserts, updates, and orphan deletes
// in bounded batches.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/events"
	"github.com/vmunix/iptvarr/pkg/title"
)

var (
	// ErrSyncInFlight means a sync pass is already running for the
	// source. The trigger is a no-op, not a queued retry.
	ErrSyncInFlight = errors.New("sync already in flight")

	// ErrFresh means the source was synced within the freshness window
	// and the trigger was not forced.
	ErrFresh = errors.New("source is fresh")
)

// Provider fetches the full raw catalog for one source.
type Provider interface {
	Fetch(ctx context.Context, src *catalog.Source) ([]catalog.RawEntry, error)
}

// Options tune sync behavior. Zero values get defaults.
type Options struct {
	Freshness    time.Duration // window during which unforced syncs are skipped
	FetchTimeout time.Duration // bound on one provider fetch
	BatchSize    int           // rows per write batch
	Concurrency  int           // sources synced in parallel by SyncAll
}

func (o *Options) setDefaults() {
	if o.Freshness == 0 {
		o.Freshness = 12 * time.Hour
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = 2 * time.Minute
	}
	if o.BatchSize == 0 {
		o.BatchSize = 2000
	}
	if o.Concurrency == 0 {
		o.Concurrency = 2
	}
}

// Result summarizes one applied sync pass.
type Result struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

// Syncer runs sync passes. At most one pass per source at a time;
// distinct sources may sync concurrently.
type Syncer struct {
	store    *catalog.Store
	provider Provider
	parser   *title.Parser
	bus      *events.Bus
	log      *slog.Logger
	opts     Options

	mu       sync.Mutex
	inflight map[int64]bool
}

func New(store *catalog.Store, provider Provider, parser *title.Parser, bus *events.Bus, logger *slog.Logger, opts Options) *Syncer {
	opts.setDefaults()
	return &Syncer{
		store:    store,
		provider: provider,
		parser:   parser,
		bus:      bus,
		log:      logger.With("component", "syncer"),
		opts:     opts,
		inflight: make(map[int64]bool),
	}
}

// Sync runs one pass for a source. force bypasses the freshness gate.
// Returns ErrFresh or ErrSyncInFlight when the pass is skipped.
func (s *Syncer) Sync(ctx context.Context, src *catalog.Source, force bool) (*Result, error) {
	if !force && src.LastSyncedAt != nil && time.Since(*src.LastSyncedAt) < s.opts.Freshness {
		s.publish(ctx, &events.SyncSkipped{
			BaseEvent:  events.NewBaseEvent(events.EventSyncSkipped, events.EntitySource, src.ID),
			SourceName: src.Name,
			Reason:     "fresh",
		})
		return nil, fmt.Errorf("source %q: %w", src.Name, ErrFresh)
	}
	if !s.acquire(src.ID) {
		s.publish(ctx, &events.SyncSkipped{
			BaseEvent:  events.NewBaseEvent(events.EventSyncSkipped, events.EntitySource, src.ID),
			SourceName: src.Name,
			Reason:     "in_flight",
		})
		return nil, fmt.Errorf("source %q: %w", src.Name, ErrSyncInFlight)
	}
	defer s.release(src.ID)

	started := time.Now()
	s.log.Info("sync started", "source", src.Name, "forced", force)
	s.publish(ctx, &events.SyncStarted{
		BaseEvent:  events.NewBaseEvent(events.EventSyncStarted, events.EntitySource, src.ID),
		SourceName: src.Name,
		Forced:     force,
	})

	result, err := s.run(ctx, src)
	if err != nil {
		s.log.Error("sync failed", "source", src.Name, "error", err)
		s.publish(ctx, &events.SyncFailed{
			BaseEvent:  events.NewBaseEvent(events.EventSyncFailed, events.EntitySource, src.ID),
			SourceName: src.Name,
			Reason:     err.Error(),
		})
		return nil, err
	}

	s.log.Info("sync completed", "source", src.Name,
		"inserted", result.Inserted, "updated", result.Updated,
		"deleted", result.Deleted, "unchanged", result.Unchanged,
		"elapsed", time.Since(started))
	s.publish(ctx, &events.SyncCompleted{
		BaseEvent:  events.NewBaseEvent(events.EventSyncCompleted, events.EntitySource, src.ID),
		SourceName: src.Name,
		Inserted:   result.Inserted,
		Updated:    result.Updated,
		Deleted:    result.Deleted,
		DurationMS: time.Since(started).Milliseconds(),
	})
	if result.Inserted+result.Updated+result.Deleted > 0 {
		s.publish(ctx, &events.ItemsChanged{
			BaseEvent:  events.NewBaseEvent(events.EventItemsChanged, events.EntitySource, src.ID),
			SourceName: src.Name,
			Inserted:   result.Inserted,
			Updated:    result.Updated,
			Deleted:    result.Deleted,
		})
	}
	return result, nil
}

// run does the fetch-diff-apply cycle. The freshness marker moves only
// after every batch has been applied, so a failed pass is retried from
// scratch against an untouched snapshot.
func (s *Syncer) run(ctx context.Context, src *catalog.Source) (*Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	entries, err := s.provider.Fetch(fetchCtx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch source %q: %w", src.Name, err)
	}

	drafts := buildDrafts(s.parser, src.ID, entries)

	snapshot, err := s.store.SnapshotItems(src.ID)
	if err != nil {
		return nil, fmt.Errorf("snapshot source %q: %w", src.Name, err)
	}

	d := computeDiff(snapshot, drafts)
	result := &Result{Unchanged: d.unchanged}

	for _, batch := range chunks(d.inserts, s.opts.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := s.store.BulkInsertItems(batch)
		if err != nil {
			return nil, fmt.Errorf("insert batch: %w", err)
		}
		result.Inserted += n
	}

	for _, batch := range chunks(d.updates, s.opts.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.store.ApplyItemUpdates(batch); err != nil {
			return nil, fmt.Errorf("update batch: %w", err)
		}
		result.Updated += len(batch)
	}

	for _, batch := range chunks(d.deletes, s.opts.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.store.DeleteItemsByURLs(src.ID, batch); err != nil {
			return nil, fmt.Errorf("delete batch: %w", err)
		}
		result.Deleted += len(batch)
	}

	if err := s.store.MarkSourceSynced(src.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("mark synced: %w", err)
	}
	return result, nil
}

// SyncAll runs a pass for every configured source. Skips (fresh,
// in-flight) are not errors; real failures are joined and returned
// after all sources have been attempted.
func (s *Syncer) SyncAll(ctx context.Context, force bool) error {
	sources, err := s.store.ListSources()
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, src := range sources {
		g.Go(func() error {
			_, err := s.Sync(ctx, src, force)
			if errors.Is(err, ErrFresh) || errors.Is(err, ErrSyncInFlight) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

func (s *Syncer) acquire(sourceID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sourceID] {
		return false
	}
	s.inflight[sourceID] = true
	return true
}

func (s *Syncer) release(sourceID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sourceID)
}

func (s *Syncer) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(ctx, e)
}

// chunks splits items into size-bounded subslices so each write batch
// stays short and chunk boundaries double as cancellation points.
func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
