// Package dedupe collapses duplicate catalog entries across providers into
// canonical representatives.
package dedupe

import (
	"strings"

	"github.com/vmunix/iptvarr/internal/catalog"
)

// genericTitles are placeholder names providers emit for unidentified
// content. Items carrying one must never be collapsed together.
var genericTitles = map[string]bool{
	"":                true,
	"unknown title":   true,
	"unknown channel": true,
	"movie":           true,
	"series":          true,
}

// Deduplicate groups items by identity key and keeps one representative per
// group, order-preserving over first occurrence. isSeries enables grouping
// by the provider's own series id when present.
func Deduplicate(items []*catalog.Item, isSeries bool) []*catalog.Item {
	result := make([]*catalog.Item, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := groupKey(item, isSeries)
		at, seen := index[key]
		if !seen {
			index[key] = len(result)
			result = append(result, item)
			continue
		}
		if isBetterVersion(item, result[at]) {
			result[at] = item
		}
	}
	return result
}

// groupKey selects the identity key for an item, in priority order:
// generic titles key on canonical title or url (never collapsed by name),
// series group on the provider series id when present, everything else on
// the folded normalized title.
func groupKey(item *catalog.Item, isSeries bool) string {
	if IsGenericTitle(item.Title) {
		if raw := strings.TrimSpace(item.RawTitle); raw != "" && !IsGenericTitle(raw) {
			return "canon:" + strings.ToLower(raw)
		}
		return "url:" + item.URL
	}
	if isSeries && item.SeriesID != "" && item.SeriesID != "0" {
		return "series:" + item.SeriesID
	}
	return "title:" + strings.ToLower(strings.TrimSpace(item.Title))
}

// IsGenericTitle reports whether a title is a provider placeholder rather
// than a real name.
func IsGenericTitle(title string) bool {
	return genericTitles[strings.ToLower(strings.TrimSpace(title))]
}

// isBetterVersion decides whether candidate should replace current as a
// group's representative. Ordered tie-breaks; the first decisive criterion
// wins, and ties keep the first-seen item.
func isBetterVersion(candidate, current *catalog.Item) bool {
	// Cover art beats none.
	if (candidate.CoverURL != "") != (current.CoverURL != "") {
		return candidate.CoverURL != ""
	}
	// A show-level record beats a leaked episode record.
	if candidate.Type == catalog.TypeSeries && current.Type == catalog.TypeEpisode {
		return true
	}
	if candidate.Type == catalog.TypeEpisode && current.Type == catalog.TypeSeries {
		return false
	}
	// 4K beats everything below it.
	if is4K(candidate) != is4K(current) {
		return is4K(candidate)
	}
	return false
}

func is4K(item *catalog.Item) bool {
	return item.Quality == "4K"
}
