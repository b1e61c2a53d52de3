// Package v1 implements the native REST API.
package v1

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/events"
	"github.com/vmunix/iptvarr/internal/resolve"
	"github.com/vmunix/iptvarr/internal/syncer"
)

// Config holds API server configuration.
type Config struct {
	Version             string
	PreferredLanguage   string
	PreferredResolution string
}

// Server is the v1 API server.
type Server struct {
	store    *catalog.Store
	resolver *resolve.Resolver
	syncer   *syncer.Syncer
	bus      *events.Bus
	eventLog *events.EventLog
	cfg      Config
	started  time.Time
}

// New creates a new v1 API server.
func New(db *sql.DB, cfg Config) *Server {
	return &Server{
		store:   catalog.NewStore(db),
		cfg:     cfg,
		started: time.Now(),
	}
}

// SetResolver configures version and next-episode resolution.
func (s *Server) SetResolver(resolver *resolve.Resolver) {
	s.resolver = resolver
}

// SetSyncer configures sync triggering.
func (s *Server) SetSyncer(sy *syncer.Syncer) {
	s.syncer = sy
}

// SetBus configures event publishing for catalog mutations.
func (s *Server) SetBus(bus *events.Bus) {
	s.bus = bus
}

// SetEventLog configures the event history endpoint.
func (s *Server) SetEventLog(log *events.EventLog) {
	s.eventLog = log
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Sources & sync
	mux.HandleFunc("GET /api/v1/sources", s.listSources)
	mux.HandleFunc("POST /api/v1/sources/{id}/sync", s.requireSyncer(s.syncSource))
	mux.HandleFunc("POST /api/v1/sync", s.requireSyncer(s.syncAll))

	// Catalog
	mux.HandleFunc("GET /api/v1/items", s.listItems)
	mux.HandleFunc("GET /api/v1/items/search", s.searchItems)
	mux.HandleFunc("GET /api/v1/items/{id}", s.getItem)
	mux.HandleFunc("GET /api/v1/items/{id}/versions", s.requireResolver(s.listVersions))
	mux.HandleFunc("GET /api/v1/items/{id}/next", s.requireResolver(s.nextEpisode))
	mux.HandleFunc("PUT /api/v1/items/{id}/favorite", s.setFavorite)

	// Playback progress
	mux.HandleFunc("PUT /api/v1/progress", s.saveProgress)
	mux.HandleFunc("GET /api/v1/progress", s.getProgress)
	mux.HandleFunc("GET /api/v1/continue", s.continueWatching)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/events", s.listEvents)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.ListSources()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	resp := statusResponse{
		Version: s.cfg.Version,
		Uptime:  int64(time.Since(s.started).Seconds()),
	}
	for _, src := range sources {
		count, err := s.store.CountItems(&src.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return
		}
		status := sourceStatus{ID: src.ID, Name: src.Name, Items: count}
		if src.LastSyncedAt != nil {
			status.LastSyncedAt = src.LastSyncedAt.Format(time.RFC3339)
		}
		resp.Sources = append(resp.Sources, status)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// requireSyncer wraps a handler and returns 503 if the syncer is not configured.
func (s *Server) requireSyncer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.syncer == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Syncer not configured")
			return
		}
		next(w, r)
	}
}

// requireResolver wraps a handler and returns 503 if the resolver is not configured.
func (s *Server) requireResolver(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.resolver == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Resolver not configured")
			return
		}
		next(w, r)
	}
}
