// internal/handlers/themes.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jason-s-yu/matchcards/internal/models"
	"github.com/jason-s-yu/matchcards/internal/theme"
)

// themeError maps chooser errors to HTTP statuses.
func themeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, theme.ErrIndexOutOfRange), errors.Is(err, theme.ErrEmojiNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, theme.ErrInvalidTheme), errors.Is(err, theme.ErrTooFewEmojis):
		respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "failed to save themes")
	}
}

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.Themes.Themes())
}

// createTheme overlays the request body on the new-theme template, so an
// empty body adds the template itself.
func (s *Server) createTheme(w http.ResponseWriter, r *http.Request) {
	t := theme.NewTheme()
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	added, err := s.Themes.Add(r.Context(), t)
	if err != nil {
		themeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

func (s *Server) updateTheme(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var t models.Theme
	if !decodeJSON(w, r, &t) {
		return
	}
	updated, err := s.Themes.Update(r.Context(), index, t)
	if err != nil {
		themeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTheme(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	if err := s.Themes.Delete(r.Context(), index); err != nil {
		themeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type emojiRequest struct {
	Emoji string `json:"emoji"`
}

func (s *Server) addEmoji(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var req emojiRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := s.Themes.AddEmoji(r.Context(), index, req.Emoji)
	if err != nil {
		themeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) removeEmoji(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	t, err := s.Themes.RemoveEmoji(r.Context(), index, chi.URLParam(r, "emoji"))
	if err != nil {
		themeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

type pairsRequest struct {
	Pairs int `json:"numberOfPairsOfCards"`
}

func (s *Server) setPairs(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r, "index")
	if !ok {
		return
	}
	var req pairsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := s.Themes.SetPairs(r.Context(), index, req.Pairs)
	if err != nil {
		themeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}
