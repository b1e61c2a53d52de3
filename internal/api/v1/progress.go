package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vmunix/iptvarr/internal/catalog"
)

func (s *Server) saveProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "MISSING_URL", "url required")
		return
	}
	if req.PositionMS < 0 || req.DurationMS < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_POSITION", "position_ms and duration_ms must be non-negative")
		return
	}

	p := &catalog.Progress{
		URL:        req.URL,
		PositionMS: req.PositionMS,
		DurationMS: req.DurationMS,
		PlayedAt:   time.Now(),
	}
	if err := s.store.UpsertProgress(p); err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "MISSING_URL", "url parameter required")
		return
	}

	p, err := s.store.GetProgress(url)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no progress for url")
		} else {
			writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toProgressResponse(p))
}

func (s *Server) continueWatching(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	entries, err := s.store.ListContinueWatching(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	resp := make([]continueEntry, 0, len(entries))
	for _, p := range entries {
		entry := continueEntry{Progress: toProgressResponse(p)}
		// Items can outlive their progress rows when a provider drops
		// them; keep the progress visible either way.
		if item, err := s.store.GetItemByURL(p.URL); err == nil {
			ir := toItemResponse(item)
			entry.Item = &ir
		}
		resp = append(resp, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toProgressResponse(p *catalog.Progress) progressResponse {
	return progressResponse{
		URL:        p.URL,
		PositionMS: p.PositionMS,
		DurationMS: p.DurationMS,
		PlayedAt:   p.PlayedAt.Format(time.RFC3339),
		Watched:    p.Watched(),
	}
}
