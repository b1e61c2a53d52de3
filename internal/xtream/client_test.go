package xtream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVODResponse = `[
  {"num": 1, "name": "Inception.2010.1080p", "stream_id": 101, "stream_icon": "http://cdn/i.jpg", "category_id": "5", "container_extension": "mkv"},
  {"num": 2, "name": "Heat (1995) 720p", "stream_id": "102", "category_id": 5, "container_extension": "mp4"}
]`

func TestClient_VODStreams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player_api.php", r.URL.Path, "unexpected path")
		assert.Equal(t, "user", r.URL.Query().Get("username"), "unexpected username")
		assert.Equal(t, "pass", r.URL.Query().Get("password"), "unexpected password")
		assert.Equal(t, "get_vod_streams", r.URL.Query().Get("action"), "unexpected action")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testVODResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass", nil)

	streams, err := client.VODStreams(context.Background())
	require.NoError(t, err)
	require.Len(t, streams, 2)

	// Ids arrive as numbers or strings depending on the backend.
	assert.Equal(t, "101", streams[0].StreamID.String())
	assert.Equal(t, "102", streams[1].StreamID.String())
	assert.Equal(t, "5", streams[0].CategoryID.String())
	assert.Equal(t, "5", streams[1].CategoryID.String())
	assert.Equal(t, "mkv", streams[0].Container.String())
}

func TestClient_SeriesInfo(t *testing.T) {
	const response = `{
		"info": {"name": "Dark"},
		"episodes": {
			"1": [
				{"id": "501", "title": "Dark S01E01", "container_extension": "mkv", "season": 1, "episode_num": 1},
				{"id": 502, "title": "Dark S01E02", "container_extension": "mkv", "season": "1", "episode_num": "2"}
			]
		}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_series_info", r.URL.Query().Get("action"))
		assert.Equal(t, "42", r.URL.Query().Get("series_id"))
		_, _ = w.Write([]byte(response))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass", nil)

	info, err := client.SeriesInfo(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, info.Episodes["1"], 2)
	assert.Equal(t, "501", info.Episodes["1"][0].ID.String())
	assert.Equal(t, 2, info.Episodes["1"][1].Episode.Int())
	assert.Equal(t, 1, info.Episodes["1"][1].Season.Int())
}

func TestClient_Authenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`{"user_info": {"auth": 1, "status": "Active"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass", nil)
	assert.NoError(t, client.Authenticate(context.Background()))
}

func TestClient_Authenticate_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user_info": {"auth": 0}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass", nil)
	assert.Error(t, client.Authenticate(context.Background()))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass", nil)
	_, err := client.LiveStreams(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass", nil)
	_, err := client.LiveStreams(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_StreamURLs(t *testing.T) {
	client := NewClient("http://iptv.example.com/", "user", "pass", nil)

	assert.Equal(t, "http://iptv.example.com/live/user/pass/7.ts", client.LiveURL("7"))
	assert.Equal(t, "http://iptv.example.com/movie/user/pass/101.mkv", client.MovieURL("101", "mkv"))
	assert.Equal(t, "http://iptv.example.com/movie/user/pass/101.mp4", client.MovieURL("101", ""))
	assert.Equal(t, "http://iptv.example.com/series/user/pass/501.mkv", client.EpisodeURL("501", "mkv"))
}
