package catalog

import (
	"database/sql"
	_ "embed"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed testdata/schema.sql
var testSchema string

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func testSource(t *testing.T, s *Store) *Source {
	t.Helper()
	src := &Source{
		Name:     "test-provider",
		BaseURL:  "http://iptv.example.com",
		Username: "user",
		Password: "pass",
	}
	if err := s.AddSource(src); err != nil {
		t.Fatalf("add source: %v", err)
	}
	return src
}

func testItem(sourceID int64, url, title string) *Item {
	i := &Item{
		SourceID: sourceID,
		URL:      url,
		Type:     TypeMovie,
		Title:    title,
		RawTitle: title,
		Group:    "Movies",
		Quality:  "1080p",
		AddedAt:  time.Now(),
	}
	i.ContentHash = i.ComputeHash()
	return i
}
