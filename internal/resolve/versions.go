// Package resolve answers playback-time questions against the catalog:
// which alternate copies of an item exist, which one best matches the
// user's preferences, and what plays next after an episode ends.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/pkg/title"
)

// Preferences select among alternate versions of the same content.
type Preferences struct {
	Language   string // e.g. "English"; empty disables the language bonus
	Resolution string // exact quality label, e.g. "1080p"
}

// Resolver reads the catalog to resolve versions and next episodes.
type Resolver struct {
	store  *catalog.Store
	parser *title.Parser
	log    *slog.Logger
}

func NewResolver(store *catalog.Store, parser *title.Parser, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		parser: parser,
		log:    logger.With("component", "resolve"),
	}
}

// Versions returns all items representing alternate copies of the same
// playable unit: same normalized title, and for episodes the same
// season and episode. The item itself is included. Store failures
// degrade to an empty result.
func (r *Resolver) Versions(item *catalog.Item) []*catalog.Item {
	filter := catalog.ItemFilter{Title: &item.Title}
	if item.Type == catalog.TypeEpisode {
		filter.Season = &item.Season
		filter.Episode = &item.Episode
	}
	return r.listItems(filter)
}

// BestVersion picks the highest-scoring version for the given
// preferences. Pure over its inputs; ties keep the earliest candidate.
// Returns nil for an empty slice.
func (r *Resolver) BestVersion(versions []*catalog.Item, prefs Preferences) *catalog.Item {
	var best *catalog.Item
	bestScore := -1
	for _, v := range versions {
		score := r.versionScore(v, prefs)
		if score > bestScore {
			best = v
			bestScore = score
		}
	}
	return best
}

func (r *Resolver) versionScore(item *catalog.Item, prefs Preferences) int {
	info := r.parser.Parse(item.RawTitle)
	score := 0
	if prefs.Language != "" &&
		strings.Contains(strings.ToLower(info.Language), strings.ToLower(prefs.Language)) {
		score += 1000
	}
	if prefs.Resolution != "" && item.Quality == prefs.Resolution {
		score += 500
	}
	return score + info.Score/100
}

func (r *Resolver) listItems(filter catalog.ItemFilter) []*catalog.Item {
	items, _, err := r.store.ListItems(filter)
	if err != nil {
		r.log.Warn("catalog query failed", "error", err)
		return nil
	}
	return items
}
