package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/storefront/internal/catalog"
	"github.com/hyperjump/storefront/internal/models"
)

// itemsResponse is the listing plus the items of the requested page, in order.
type itemsResponse struct {
	*models.Listing
	Items []*models.ListItem `json:"items"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCollections(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"collections": s.catalog.Collections(),
	})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	q, err := models.DecodeListingQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.catalog.Items(name)
	if err != nil {
		s.respondCatalogError(w, err)
		return
	}
	s.logger.Debug("listing request",
		zap.String("collection", name),
		zap.String("category", q.Category),
		zap.String("search", q.Search),
		zap.String("sort", q.Sort),
		zap.Int("page", q.Page),
	)
	listing := s.pipeline.Run(name, items, q)

	matches := listing.PageMatches()
	out := make([]*models.ListItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Item)
	}
	s.respondJSON(w, http.StatusOK, itemsResponse{Listing: listing, Items: out})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cats, err := s.catalog.Categories(name)
	if err != nil {
		s.respondCatalogError(w, err)
		return
	}
	if cats == nil {
		cats = []catalog.Category{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"collection": name,
		"categories": cats,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	n, err := s.catalog.Reload(r.Context(), name)
	if err != nil {
		s.respondCatalogError(w, err)
		return
	}
	s.logger.Info("collection reloaded", zap.String("collection", name), zap.Int("items", n))
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"collection": name,
		"items":      n,
		"status":     "reloaded",
	})
}

func (s *Server) respondCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrUnknownCollection) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("catalog request failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
