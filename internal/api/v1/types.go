package v1

import "github.com/vmunix/iptvarr/internal/catalog"

type statusResponse struct {
	Version string         `json:"version"`
	Uptime  int64          `json:"uptime_seconds"`
	Sources []sourceStatus `json:"sources"`
}

type sourceStatus struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Items        int    `json:"items"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
}

type sourceResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	BaseURL      string `json:"base_url"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
}

type itemResponse struct {
	ID       int64  `json:"id"`
	SourceID int64  `json:"source_id"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	RawTitle string `json:"raw_title,omitempty"`
	Group    string `json:"group,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
	Quality  string `json:"quality,omitempty"`
	SeriesID string `json:"series_id,omitempty"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
	Favorite bool   `json:"favorite"`
}

func toItemResponse(i *catalog.Item) itemResponse {
	return itemResponse{
		ID:       i.ID,
		SourceID: i.SourceID,
		URL:      i.URL,
		Type:     string(i.Type),
		Title:    i.Title,
		RawTitle: i.RawTitle,
		Group:    i.Group,
		CoverURL: i.CoverURL,
		Quality:  i.Quality,
		SeriesID: i.SeriesID,
		Season:   i.Season,
		Episode:  i.Episode,
		Favorite: i.Favorite,
	}
}

func toItemResponses(items []*catalog.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

type listItemsResponse struct {
	Items  []itemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

type progressRequest struct {
	URL        string `json:"url"`
	PositionMS int64  `json:"position_ms"`
	DurationMS int64  `json:"duration_ms"`
}

type progressResponse struct {
	URL        string `json:"url"`
	PositionMS int64  `json:"position_ms"`
	DurationMS int64  `json:"duration_ms"`
	PlayedAt   string `json:"played_at"`
	Watched    bool   `json:"watched"`
}

type continueEntry struct {
	Item     *itemResponse    `json:"item,omitempty"`
	Progress progressResponse `json:"progress"`
}

type eventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Payload    string `json:"payload"`
	OccurredAt string `json:"occurred_at"`
}
