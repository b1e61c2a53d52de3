package v1

import (
	"database/sql"
	_ "embed"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/resolve"
	"github.com/vmunix/iptvarr/pkg/title"
)

//go:embed testdata/schema.sql
var testSchema string

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err, "apply schema")
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupServer builds a Server backed by an in-memory store with one
// registered source and a resolver wired up.
func setupServer(t *testing.T, cfg Config) (*Server, *sql.DB, *catalog.Source) {
	t.Helper()
	db := setupTestDB(t)
	srv := New(db, cfg)

	src := &catalog.Source{Name: "test-provider", BaseURL: "http://iptv.example.com"}
	require.NoError(t, srv.store.AddSource(src))

	srv.SetResolver(resolve.NewResolver(srv.store, title.NewParser(), testLogger()))
	return srv, db, src
}

func addItem(t *testing.T, store *catalog.Store, item *catalog.Item) *catalog.Item {
	t.Helper()
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	item.ContentHash = item.ComputeHash()
	require.NoError(t, store.AddItem(item), "add item %s", item.URL)
	return item
}

func movie(sourceID int64, url, rawTitle string) *catalog.Item {
	p := title.Parse(rawTitle)
	return &catalog.Item{
		SourceID: sourceID,
		URL:      url,
		Type:     catalog.TypeMovie,
		Title:    p.Title,
		RawTitle: rawTitle,
		Quality:  p.Quality,
	}
}

func episode(sourceID int64, url, rawTitle, seriesID string, season, ep int) *catalog.Item {
	p := title.Parse(rawTitle)
	return &catalog.Item{
		SourceID: sourceID,
		URL:      url,
		Type:     catalog.TypeEpisode,
		Title:    p.Title,
		RawTitle: rawTitle,
		Quality:  p.Quality,
		SeriesID: seriesID,
		Season:   season,
		Episode:  ep,
	}
}
