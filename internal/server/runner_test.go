package server

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/syncer"
	"github.com/vmunix/iptvarr/internal/syncer/mocks"
	"github.com/vmunix/iptvarr/pkg/title"
)

//go:embed testdata/schema.sql
var testSchema string

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

// newTestSyncer wires a syncer whose provider counts fetches.
func newTestSyncer(t *testing.T, db *sql.DB, fetches *atomic.Int64) *syncer.Syncer {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := catalog.NewStore(db)
	require.NoError(t, store.AddSource(&catalog.Source{Name: "test-provider", BaseURL: "http://iptv.example.com"}))

	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().
		Fetch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, src *catalog.Source) ([]catalog.RawEntry, error) {
			fetches.Add(1)
			return nil, nil
		}).
		AnyTimes()

	// Near-zero freshness so every scheduled pass actually fetches.
	return syncer.New(store, provider, title.NewParser(), nil, testLogger(), syncer.Options{Freshness: time.Millisecond})
}

func TestRunner_StartsAndStops(t *testing.T) {
	db := setupTestDB(t)
	var fetches atomic.Int64
	runner := NewRunner(newTestSyncer(t, db, &fetches), nil, Config{SyncInterval: time.Hour}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	// The initial pass runs before the first tick.
	require.Eventually(t, func() bool { return fetches.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for runner to stop")
	}
}

func TestRunner_PeriodicSync(t *testing.T) {
	db := setupTestDB(t)
	var fetches atomic.Int64
	runner := NewRunner(newTestSyncer(t, db, &fetches), nil, Config{SyncInterval: 20 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = runner.Run(ctx) }()

	require.Eventually(t, func() bool { return fetches.Load() >= 3 }, 2*time.Second, 10*time.Millisecond,
		"expected initial pass plus ticks")
}

func TestNewRunner_Defaults(t *testing.T) {
	db := setupTestDB(t)
	var fetches atomic.Int64
	runner := NewRunner(newTestSyncer(t, db, &fetches), nil, Config{}, nil)
	require.NotNil(t, runner.logger)
	require.Equal(t, defaultSyncInterval, runner.config.SyncInterval)
	require.Equal(t, defaultEventRetention, runner.config.EventRetention)
}
