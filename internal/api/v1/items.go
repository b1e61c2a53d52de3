package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/events"
	"github.com/vmunix/iptvarr/internal/resolve"
)

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ItemFilter{
		Limit:  queryInt(r, "limit", 100),
		Offset: queryInt(r, "offset", 0),
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}

	q := r.URL.Query()
	if v := q.Get("source_id"); v != "" {
		id := int64(queryInt(r, "source_id", 0))
		filter.SourceID = &id
	}
	if v := q.Get("type"); v != "" {
		ct := catalog.ContentType(v)
		filter.Type = &ct
	}
	if v := q.Get("group"); v != "" {
		filter.Group = &v
	}
	if v := q.Get("series_id"); v != "" {
		filter.SeriesID = &v
	}
	if v := q.Get("season"); v != "" {
		season := queryInt(r, "season", 0)
		filter.Season = &season
	}
	if v := q.Get("favorite"); v == "true" {
		fav := true
		filter.Favorite = &fav
	}

	items, total, err := s.store.ListItems(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listItemsResponse{
		Items:  toItemResponses(items),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (s *Server) searchItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "q parameter required")
		return
	}
	limit := queryInt(r, "limit", 100)

	items, err := s.store.SearchItems(q, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listItemsResponse{
		Items: toItemResponses(items),
		Total: len(items),
		Limit: limit,
	})
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}

	versions := s.resolver.Versions(item)

	prefs := resolve.Preferences{
		Language:   s.cfg.PreferredLanguage,
		Resolution: s.cfg.PreferredResolution,
	}
	if v := r.URL.Query().Get("language"); v != "" {
		prefs.Language = v
	}
	if v := r.URL.Query().Get("resolution"); v != "" {
		prefs.Resolution = v
	}

	resp := struct {
		Versions []itemResponse `json:"versions"`
		Best     *itemResponse  `json:"best,omitempty"`
	}{Versions: toItemResponses(versions)}
	if best := s.resolver.BestVersion(versions, prefs); best != nil {
		b := toItemResponse(best)
		resp.Best = &b
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) nextEpisode(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}

	next := s.resolver.NextEpisode(item)
	if next == nil {
		// No successor is the normal end-of-series state.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(next))
}

func (s *Server) setFavorite(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemFromPath(w, r)
	if !ok {
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if err := s.store.SetFavorite(item.URL, req.Favorite); err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	item.Favorite = req.Favorite
	if s.bus != nil {
		_ = s.bus.Publish(r.Context(), events.FavoriteChanged{
			BaseEvent: events.NewBaseEvent(events.EventFavoriteChanged, events.EntityItem, item.ID),
			URL:       item.URL,
			Favorite:  req.Favorite,
		})
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) itemFromPath(w http.ResponseWriter, r *http.Request) (*catalog.Item, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}
	item, err := s.store.GetItem(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "item not found")
		} else {
			writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		}
		return nil, false
	}
	return item, true
}
