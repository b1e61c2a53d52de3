// Package catalog manages the persisted content catalog (sources, items,
// watch progress) aggregated from IPTV providers.
package catalog

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// ContentType distinguishes the kinds of catalog items.
type ContentType string

const (
	TypeLive    ContentType = "live"
	TypeMovie   ContentType = "movie"
	TypeSeries  ContentType = "series"
	TypeEpisode ContentType = "series_episode"
)

// Source is a configured IPTV provider account.
type Source struct {
	ID           int64
	Name         string
	BaseURL      string
	Username     string
	Password     string
	LastSyncedAt *time.Time
}

// Item is the canonical persisted unit of content. URL is the stable
// identity key within a source; ContentHash is the change detector used by
// incremental sync.
type Item struct {
	ID          int64
	SourceID    int64
	URL         string
	Type        ContentType
	Title       string // normalized display title
	RawTitle    string // provider title kept for re-matching
	Group       string // provider category name
	CoverURL    string
	Quality     string
	SeriesID    string // provider series id, "" when not an episode
	Season      int
	Episode     int
	ContentHash string
	Favorite    bool
	AddedAt     time.Time
}

// ComputeHash derives the content hash from the fields that constitute a
// real change. URL and cover are deliberately excluded: providers rotate
// stream tokens and backfill artwork, and neither should read as "changed".
func (i *Item) ComputeHash() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d", i.Title, i.Group, i.SeriesID, i.Season, i.Episode)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Progress tracks playback position for one item url.
type Progress struct {
	URL        string
	PositionMS int64
	DurationMS int64
	PlayedAt   time.Time
}

// Watched reports whether playback got close enough to the end to count
// as finished.
func (p *Progress) Watched() bool {
	return p.DurationMS > 0 && p.PositionMS*100 >= p.DurationMS*95
}

// RawEntry is an unprocessed record from a provider, produced by an adapter
// and consumed immediately by the sync engine. Never persisted.
type RawEntry struct {
	Type       ContentType
	Title      string
	URL        string
	StreamID   string
	SeriesID   string
	Season     int
	Episode    int
	CategoryID string
	Group      string
	Container  string
	CoverURL   string
}

// ItemRef is a lightweight projection of a persisted item used for sync
// snapshot comparison without materializing full rows.
type ItemRef struct {
	ID          int64
	URL         string
	ContentHash string
}

// NormalizeGroup trims a provider category name for storage.
func NormalizeGroup(group string) string {
	return strings.TrimSpace(group)
}
