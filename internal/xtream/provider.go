package xtream

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/iptvarr/internal/catalog"
)

// seriesInfoConcurrency bounds parallel get_series_info calls; large
// providers list thousands of shows.
const seriesInfoConcurrency = 4

// Provider adapts the Xtream API to the sync engine: one Fetch returns
// the full raw catalog (live, VOD, series, episodes) for a source.
type Provider struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[int64]*Client // keyed by source id
}

func NewProvider(log *slog.Logger) *Provider {
	return &Provider{
		log:     log,
		clients: make(map[int64]*Client),
	}
}

func (p *Provider) client(src *catalog.Source) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.clients[src.ID]
	if !ok {
		c = NewClient(src.BaseURL, src.Username, src.Password, p.log)
		p.clients[src.ID] = c
	}
	return c
}

// Fetch retrieves the complete raw catalog for one source.
func (p *Provider) Fetch(ctx context.Context, src *catalog.Source) ([]catalog.RawEntry, error) {
	c := p.client(src)

	liveCats, err := c.LiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	vodCats, err := c.VODCategories(ctx)
	if err != nil {
		return nil, err
	}
	seriesCats, err := c.SeriesCategories(ctx)
	if err != nil {
		return nil, err
	}

	var entries []catalog.RawEntry

	live, err := c.LiveStreams(ctx)
	if err != nil {
		return nil, err
	}
	groups := categoryNames(liveCats)
	for _, s := range live {
		entries = append(entries, catalog.RawEntry{
			Type:       catalog.TypeLive,
			Title:      s.Name,
			URL:        c.LiveURL(s.StreamID.String()),
			StreamID:   s.StreamID.String(),
			CategoryID: s.CategoryID.String(),
			Group:      groups[s.CategoryID.String()],
			CoverURL:   s.Icon,
		})
	}

	vod, err := c.VODStreams(ctx)
	if err != nil {
		return nil, err
	}
	groups = categoryNames(vodCats)
	for _, s := range vod {
		entries = append(entries, catalog.RawEntry{
			Type:       catalog.TypeMovie,
			Title:      s.Name,
			URL:        c.MovieURL(s.StreamID.String(), s.Container.String()),
			StreamID:   s.StreamID.String(),
			CategoryID: s.CategoryID.String(),
			Group:      groups[s.CategoryID.String()],
			Container:  s.Container.String(),
			CoverURL:   s.Icon,
		})
	}

	series, err := c.Series(ctx)
	if err != nil {
		return nil, err
	}
	groups = categoryNames(seriesCats)
	for _, s := range series {
		entries = append(entries, catalog.RawEntry{
			Type:       catalog.TypeSeries,
			Title:      s.Name,
			URL:        seriesURL(src.BaseURL, s.SeriesID.String()),
			SeriesID:   s.SeriesID.String(),
			CategoryID: s.CategoryID.String(),
			Group:      groups[s.CategoryID.String()],
			CoverURL:   s.Cover,
		})
	}

	episodes, err := p.fetchEpisodes(ctx, c, series, groups)
	if err != nil {
		return nil, err
	}
	return append(entries, episodes...), nil
}

// fetchEpisodes pulls per-series episode listings with bounded
// parallelism, preserving series order in the output.
func (p *Provider) fetchEpisodes(ctx context.Context, c *Client, series []Series, groups map[string]string) ([]catalog.RawEntry, error) {
	results := make([][]catalog.RawEntry, len(series))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(seriesInfoConcurrency)
	for i, s := range series {
		g.Go(func() error {
			info, err := c.SeriesInfo(ctx, s.SeriesID.String())
			if err != nil {
				return fmt.Errorf("series %q: %w", s.Name, err)
			}
			results[i] = episodeEntries(c, s, info, groups[s.CategoryID.String()])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []catalog.RawEntry
	for _, r := range results {
		entries = append(entries, r...)
	}
	return entries, nil
}

func episodeEntries(c *Client, s Series, info *SeriesInfo, group string) []catalog.RawEntry {
	seasons := make([]string, 0, len(info.Episodes))
	for season := range info.Episodes {
		seasons = append(seasons, season)
	}
	sort.Slice(seasons, func(i, j int) bool {
		a, _ := strconv.Atoi(seasons[i])
		b, _ := strconv.Atoi(seasons[j])
		return a < b
	})

	var entries []catalog.RawEntry
	for _, season := range seasons {
		for _, ep := range info.Episodes[season] {
			seasonNum := ep.Season.Int()
			if seasonNum == 0 {
				seasonNum, _ = strconv.Atoi(season)
			}
			title := ep.Title
			if title == "" {
				title = fmt.Sprintf("%s S%02dE%02d", s.Name, seasonNum, ep.Episode.Int())
			}
			entries = append(entries, catalog.RawEntry{
				Type:      catalog.TypeEpisode,
				Title:     title,
				URL:       c.EpisodeURL(ep.ID.String(), ep.Container.String()),
				StreamID:  ep.ID.String(),
				SeriesID:  s.SeriesID.String(),
				Season:    seasonNum,
				Episode:   ep.Episode.Int(),
				Group:     group,
				Container: ep.Container.String(),
				CoverURL:  s.Cover,
			})
		}
	}
	return entries
}

func categoryNames(cats []Category) map[string]string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID.String()] = c.Name
	}
	return names
}

// seriesURL is a synthetic stable identity for show-level records;
// series are not directly playable.
func seriesURL(baseURL, seriesID string) string {
	return fmt.Sprintf("%s/series-info/%s", baseURL, seriesID)
}
