package resolve

import (
	"fmt"
	"strings"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/pkg/title"
)

// similarityThreshold gates fuzzy title confirmation after the cheap
// prefix pre-filter.
const similarityThreshold = 0.85

// prefixLen bounds the title prefix used to pre-filter fuzzy candidates
// before the expensive edit-distance confirmation.
const prefixLen = 10

// NextEpisode finds the episode that plays after current. Structured
// metadata is tried first, then fuzzy title matching across provider
// copies. A nil result means no successor exists, which is the normal
// end-of-series state, not an error.
func (r *Resolver) NextEpisode(current *catalog.Item) *catalog.Item {
	info := r.parser.Parse(current.RawTitle)

	if next := r.nextStructured(current, info); next != nil {
		return next
	}
	return r.nextFuzzy(current, info)
}

// nextStructured queries by the provider's own series id: same season
// episode+1 first, then the next season's opener.
func (r *Resolver) nextStructured(current *catalog.Item, info title.Info) *catalog.Item {
	if current.SeriesID == "" || current.SeriesID == "0" {
		return nil
	}
	season, episode := currentPosition(current, info)
	if season == 0 {
		return nil
	}

	for _, target := range []struct{ season, episode int }{
		{season, episode + 1},
		{season + 1, 1},
	} {
		episodeType := catalog.TypeEpisode
		candidates := r.listItems(catalog.ItemFilter{
			SeriesID: &current.SeriesID,
			Type:     &episodeType,
			Season:   &target.season,
			Episode:  &target.episode,
		})
		if len(candidates) > 0 {
			return r.rankForCurrent(candidates, current, info)
		}
	}
	return nil
}

// nextFuzzy matches by title when no structured link exists: pre-filter
// on a show-title prefix, confirm with edit-distance similarity, then
// look for the target episode number spelled out in the raw title.
func (r *Resolver) nextFuzzy(current *catalog.Item, info title.Info) *catalog.Item {
	season, episode := currentPosition(current, info)
	if season == 0 {
		return nil
	}
	show := showTitle(current, info)
	if show == "" {
		return nil
	}

	prefix := titlePrefix(show)
	episodeType := catalog.TypeEpisode
	candidates := r.listItems(catalog.ItemFilter{
		TitlePrefix: &prefix,
		Type:        &episodeType,
	})

	var confirmed []*catalog.Item
	for _, c := range candidates {
		if c.URL == current.URL {
			continue
		}
		if title.Similarity(show, showTitle(c, r.parser.Parse(c.RawTitle))) > similarityThreshold {
			confirmed = append(confirmed, c)
		}
	}
	if len(confirmed) == 0 {
		return nil
	}

	for _, target := range []struct{ season, episode int }{
		{season, episode + 1},
		{season + 1, 1},
	} {
		var matches []*catalog.Item
		for _, c := range confirmed {
			if containsEpisodeTag(c.RawTitle, target.season, target.episode) {
				matches = append(matches, c)
			}
		}
		if len(matches) > 0 {
			return r.rankForCurrent(matches, current, info)
		}
	}
	return nil
}

// rankForCurrent picks among version variants of the same target
// episode, preferring the language and quality the user is currently
// watching so that autoplay does not switch tracks mid-binge.
func (r *Resolver) rankForCurrent(candidates []*catalog.Item, current *catalog.Item, info title.Info) *catalog.Item {
	return r.BestVersion(candidates, Preferences{
		Language:   info.Language,
		Resolution: current.Quality,
	})
}

// currentPosition prefers the persisted season/episode and falls back
// to what the raw title parses to.
func currentPosition(item *catalog.Item, info title.Info) (season, episode int) {
	if item.Season > 0 {
		return item.Season, item.Episode
	}
	return info.Season, info.Episode
}

// showTitle is the series name with any episode anchor stripped.
func showTitle(item *catalog.Item, info title.Info) string {
	if info.Title != "" {
		return info.Title
	}
	return strings.TrimSpace(item.Title)
}

// titlePrefix bounds show to prefixLen runes. Cutting on a rune
// boundary keeps the prefix valid UTF-8 for accented show names.
func titlePrefix(show string) string {
	runes := []rune(show)
	if len(runes) <= prefixLen {
		return show
	}
	return string(runes[:prefixLen])
}

// containsEpisodeTag reports whether raw spells the target episode in
// any of the common forms: S01E02, S1E2, or 1x02.
func containsEpisodeTag(raw string, season, episode int) bool {
	upper := strings.ToUpper(raw)
	for _, tag := range []string{
		fmt.Sprintf("S%02dE%02d", season, episode),
		fmt.Sprintf("S%dE%d", season, episode),
		fmt.Sprintf("%dX%02d", season, episode),
	} {
		if strings.Contains(upper, tag) {
			return true
		}
	}
	return false
}
