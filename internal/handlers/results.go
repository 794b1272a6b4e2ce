// internal/handlers/results.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jason-s-yu/matchcards/internal/models"
	log "github.com/sirupsen/logrus"
)

const (
	defaultResultLimit = 20
	maxResultLimit     = 100
)

// ResultLister reads finished rounds back, newest first.
type ResultLister interface {
	RecentResults(ctx context.Context, kind models.GameKind, limit int) ([]models.GameResult, error)
}

// listResults serves GET /results?kind=memory|set&limit=N.
func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		respondError(w, r, http.StatusNotFound, "result history is not enabled")
		return
	}
	q := r.URL.Query()
	kind := models.GameKind(q.Get("kind"))
	if kind != models.KindMemory && kind != models.KindSet {
		respondError(w, r, http.StatusBadRequest, "kind must be memory or set")
		return
	}
	limit := defaultResultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxResultLimit)
	}

	results, err := s.History.RecentResults(r.Context(), kind, limit)
	if err != nil {
		log.Printf("Error: listing %s results: %v", kind, err)
		respondError(w, r, http.StatusInternalServerError, "failed to load results")
		return
	}
	if results == nil {
		results = []models.GameResult{}
	}
	respondJSON(w, http.StatusOK, results)
}
