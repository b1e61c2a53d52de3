package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(StatusResponse{
			Version: "0.1.0",
			Sources: []SourceStatus{{ID: 1, Name: "main", Items: 42}},
		})
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).Status()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", status.Version)
	require.Len(t, status.Sources, 1)
	assert.Equal(t, 42, status.Sources[0].Items)
}

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/items/search", r.URL.Path)
		assert.Equal(t, "breaking", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(ListItemsResponse{
			Items: []ItemResponse{{ID: 7, Title: "Breaking Bad", Type: "series"}},
			Total: 1,
		})
	}))
	defer srv.Close()

	results, err := NewClient(srv.URL).Search("breaking", 25)
	require.NoError(t, err)
	require.Len(t, results.Items, 1)
	assert.Equal(t, "Breaking Bad", results.Items[0].Title)
}

func TestClient_NextEpisode_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	next, err := NewClient(srv.URL).NextEpisode(1)
	require.NoError(t, err)
	assert.Nil(t, next, "204 means end of series")
}

func TestClient_SetFavorite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/items/3/favorite", r.URL.Path)
		var req map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(ItemResponse{ID: 3, Title: "Dark", Favorite: req["favorite"]})
	}))
	defer srv.Close()

	item, err := NewClient(srv.URL).SetFavorite(3, true)
	require.NoError(t, err)
	assert.True(t, item.Favorite)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom","code":"STORE_ERROR"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
