package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/syncer"
)

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.ListSources()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	resp := make([]sourceResponse, 0, len(sources))
	for _, src := range sources {
		sr := sourceResponse{ID: src.ID, Name: src.Name, BaseURL: src.BaseURL}
		if src.LastSyncedAt != nil {
			sr.LastSyncedAt = src.LastSyncedAt.Format(time.RFC3339)
		}
		resp = append(resp, sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

// syncSource runs a forced sync pass for one source and waits for it.
// A user pressing "sync now" means it, so the freshness gate is
// bypassed unless force=false is passed explicitly.
func (s *Server) syncSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	src, err := s.store.GetSource(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "source not found")
		} else {
			writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		}
		return
	}

	force := r.URL.Query().Get("force") != "false"
	result, err := s.syncer.Sync(r.Context(), src, force)
	switch {
	case errors.Is(err, syncer.ErrSyncInFlight):
		writeError(w, http.StatusConflict, "SYNC_IN_FLIGHT", "a sync pass is already running for this source")
	case errors.Is(err, syncer.ErrFresh):
		writeJSON(w, http.StatusOK, map[string]string{"status": "skipped", "reason": "fresh"})
	case err != nil:
		writeError(w, http.StatusBadGateway, "SYNC_FAILED", err.Error())
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// syncAll kicks off a background pass over every source.
func (s *Server) syncAll(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	go func() {
		// Detached from the request; a catalog-wide sync outlives it.
		_ = s.syncer.SyncAll(context.WithoutCancel(r.Context()), force)
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}
