package resolve

import (
	"database/sql"
	_ "embed"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/pkg/title"
	_ "modernc.org/sqlite"
)

//go:embed testdata/schema.sql
var testSchema string

func setupResolver(t *testing.T) (*Resolver, *catalog.Store, *catalog.Source) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	store := catalog.NewStore(db)
	src := &catalog.Source{Name: "test-provider", BaseURL: "http://iptv.example.com"}
	if err := store.AddSource(src); err != nil {
		t.Fatalf("add source: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResolver(store, title.NewParser(), logger), store, src
}

func addItem(t *testing.T, store *catalog.Store, item *catalog.Item) *catalog.Item {
	t.Helper()
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	item.ContentHash = item.ComputeHash()
	if err := store.AddItem(item); err != nil {
		t.Fatalf("add item %s: %v", item.URL, err)
	}
	return item
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
