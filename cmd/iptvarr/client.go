package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps HTTP calls to the iptvarr server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new iptvarr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // sync passes can run long
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) do(method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// errNoContent signals a 204 response, e.g. no next episode.
var errNoContent = fmt.Errorf("no content")

// API response types (mirror server types)

type StatusResponse struct {
	Version string         `json:"version"`
	Uptime  int64          `json:"uptime_seconds"`
	Sources []SourceStatus `json:"sources"`
}

type SourceStatus struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Items        int    `json:"items"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
}

type ItemResponse struct {
	ID       int64  `json:"id"`
	SourceID int64  `json:"source_id"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	RawTitle string `json:"raw_title,omitempty"`
	Group    string `json:"group,omitempty"`
	Quality  string `json:"quality,omitempty"`
	SeriesID string `json:"series_id,omitempty"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
	Favorite bool   `json:"favorite"`
}

type ListItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type VersionsResponse struct {
	Versions []ItemResponse `json:"versions"`
	Best     *ItemResponse  `json:"best,omitempty"`
}

type SyncResult struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
}

type ProgressResponse struct {
	URL        string `json:"url"`
	PositionMS int64  `json:"position_ms"`
	DurationMS int64  `json:"duration_ms"`
	PlayedAt   string `json:"played_at"`
	Watched    bool   `json:"watched"`
}

type ContinueEntry struct {
	Item     *ItemResponse    `json:"item,omitempty"`
	Progress ProgressResponse `json:"progress"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(query string, limit int) (*ListItemsResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	var resp ListItemsResponse
	if err := c.get("/api/v1/items/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Items(params url.Values) (*ListItemsResponse, error) {
	path := "/api/v1/items"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp ListItemsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Versions(itemID int64, language, resolution string) (*VersionsResponse, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	if resolution != "" {
		params.Set("resolution", resolution)
	}
	path := fmt.Sprintf("/api/v1/items/%d/versions", itemID)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var resp VersionsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NextEpisode returns nil when the item has no successor.
func (c *Client) NextEpisode(itemID int64) (*ItemResponse, error) {
	var resp ItemResponse
	err := c.get(fmt.Sprintf("/api/v1/items/%d/next", itemID), &resp)
	if err == errNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetFavorite(itemID int64, favorite bool) (*ItemResponse, error) {
	var resp ItemResponse
	err := c.do(http.MethodPut, fmt.Sprintf("/api/v1/items/%d/favorite", itemID),
		map[string]bool{"favorite": favorite}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncSource(sourceID int64) (*SyncResult, error) {
	var resp SyncResult
	err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/sources/%d/sync", sourceID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SyncAll() error {
	return c.do(http.MethodPost, "/api/v1/sync?force=true", nil, nil)
}

func (c *Client) Continue(limit int) ([]ContinueEntry, error) {
	var resp []ContinueEntry
	if err := c.get(fmt.Sprintf("/api/v1/continue?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Events(limit int) ([]EventResponse, error) {
	var resp []EventResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
