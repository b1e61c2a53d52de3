package syncer

import (
	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/dedupe"
	"github.com/vmunix/iptvarr/pkg/title"
)

// buildDrafts turns raw provider entries into catalog item drafts:
// normalize every title, deduplicate per content type, compute content
// hashes. Pure CPU work, no store access.
func buildDrafts(parser *title.Parser, sourceID int64, entries []catalog.RawEntry) []*catalog.Item {
	byType := make(map[catalog.ContentType][]*catalog.Item, 4)
	var order []catalog.ContentType
	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}
		item := buildDraft(parser, sourceID, entry)
		if _, ok := byType[item.Type]; !ok {
			order = append(order, item.Type)
		}
		byType[item.Type] = append(byType[item.Type], item)
	}

	var drafts []*catalog.Item
	for _, t := range order {
		isSeries := t == catalog.TypeSeries || t == catalog.TypeEpisode
		drafts = append(drafts, dedupe.Deduplicate(byType[t], isSeries)...)
	}
	return drafts
}

// buildDraft is the type-specific item factory.
func buildDraft(parser *title.Parser, sourceID int64, entry catalog.RawEntry) *catalog.Item {
	info := parser.Parse(entry.Title)

	item := &catalog.Item{
		SourceID: sourceID,
		URL:      entry.URL,
		Type:     entry.Type,
		Title:    info.Title,
		RawTitle: entry.Title,
		Group:    catalog.NormalizeGroup(entry.Group),
		CoverURL: entry.CoverURL,
		Quality:  info.Quality,
	}

	switch entry.Type {
	case catalog.TypeSeries:
		item.SeriesID = entry.SeriesID
	case catalog.TypeEpisode:
		item.SeriesID = entry.SeriesID
		item.Season = entry.Season
		item.Episode = entry.Episode
		if item.Season == 0 && info.Season > 0 {
			item.Season = info.Season
			item.Episode = info.Episode
		}
	}

	item.ContentHash = item.ComputeHash()
	return item
}
