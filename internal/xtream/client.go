// Package xtream implements a client for the Xtream Codes player API,
// the de facto protocol IPTV providers expose catalogs over.
package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Client talks to one provider's player_api.php endpoint.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client for one provider account.
func NewClient(baseURL, username, password string, log *slog.Logger) *Client {
	var clientLog *slog.Logger
	if log != nil {
		clientLog = log.With("component", "xtream")
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: clientLog,
	}
}

// URL returns the provider base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// Authenticate performs a bare player_api request to test credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	var account accountResponse
	if err := c.get(ctx, "", nil, &account); err != nil {
		return err
	}
	if account.UserInfo.Auth != 1 {
		return fmt.Errorf("provider rejected credentials for %q", c.username)
	}
	return nil
}

// LiveCategories fetches the live stream category list.
func (c *Client) LiveCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := c.get(ctx, "get_live_categories", nil, &cats)
	return cats, err
}

// VODCategories fetches the VOD category list.
func (c *Client) VODCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := c.get(ctx, "get_vod_categories", nil, &cats)
	return cats, err
}

// SeriesCategories fetches the series category list.
func (c *Client) SeriesCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := c.get(ctx, "get_series_categories", nil, &cats)
	return cats, err
}

// LiveStreams fetches every live channel.
func (c *Client) LiveStreams(ctx context.Context) ([]LiveStream, error) {
	var streams []LiveStream
	err := c.get(ctx, "get_live_streams", nil, &streams)
	return streams, err
}

// VODStreams fetches every VOD entry.
func (c *Client) VODStreams(ctx context.Context) ([]VODStream, error) {
	var streams []VODStream
	err := c.get(ctx, "get_vod_streams", nil, &streams)
	return streams, err
}

// Series fetches every series (show-level records, no episodes).
func (c *Client) Series(ctx context.Context) ([]Series, error) {
	var series []Series
	err := c.get(ctx, "get_series", nil, &series)
	return series, err
}

// SeriesInfo fetches the episode listing for one series.
func (c *Client) SeriesInfo(ctx context.Context, seriesID string) (*SeriesInfo, error) {
	var info SeriesInfo
	err := c.get(ctx, "get_series_info", url.Values{"series_id": {seriesID}}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// LiveURL builds the playable URL for a live channel.
func (c *Client) LiveURL(streamID string) string {
	return fmt.Sprintf("%s/live/%s/%s/%s.ts", c.baseURL, c.username, c.password, streamID)
}

// MovieURL builds the playable URL for a VOD entry.
func (c *Client) MovieURL(streamID, container string) string {
	return fmt.Sprintf("%s/movie/%s/%s/%s.%s", c.baseURL, c.username, c.password, streamID, defaultContainer(container))
}

// EpisodeURL builds the playable URL for a series episode.
func (c *Client) EpisodeURL(episodeID, container string) string {
	return fmt.Sprintf("%s/series/%s/%s/%s.%s", c.baseURL, c.username, c.password, episodeID, defaultContainer(container))
}

func defaultContainer(container string) string {
	if container == "" {
		return "mp4"
	}
	return container
}

// get performs one player_api call with retry on transient failures and
// decodes the JSON body into out.
func (c *Client) get(ctx context.Context, action string, extra url.Values, out any) error {
	reqURL, err := url.Parse(c.baseURL + "/player_api.php")
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	params := url.Values{}
	params.Set("username", c.username)
	params.Set("password", c.password)
	if action != "" {
		params.Set("action", action)
	}
	for key, vals := range extra {
		params[key] = vals
	}
	reqURL.RawQuery = params.Encode()

	start := time.Now()
	body, err := retry.DoWithData(
		func() ([]byte, error) { return c.fetch(ctx, reqURL.String()) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if c.log != nil {
				c.log.Warn("request retry", "action", action, "attempt", n+1, "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("xtream %s: %w", actionLabel(action), err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("xtream %s: parse response: %w", actionLabel(action), err)
	}

	if c.log != nil {
		c.log.Debug("request complete", "action", action, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status: %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func actionLabel(action string) string {
	if action == "" {
		return "authenticate"
	}
	return action
}
