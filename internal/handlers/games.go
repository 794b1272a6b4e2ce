// internal/handlers/games.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/matchcards/internal/game"
	"github.com/jason-s-yu/matchcards/internal/models"
	log "github.com/sirupsen/logrus"
)

// GameCreated is returned by the game creation routes. Token authorises
// the session socket.
type GameCreated struct {
	GameID uuid.UUID `json:"gameId"`
	Token  string    `json:"token"`
}

type memoryRequest struct {
	ThemeIndex int `json:"themeIndex"`
}

func (s *Server) createMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := s.Themes.Theme(req.ThemeIndex)
	if err != nil {
		themeError(w, r, err)
		return
	}
	sess := game.NewMemorySession(t, s.MemoryRules)
	s.start(w, r, sess)
}

func (s *Server) createSet(w http.ResponseWriter, r *http.Request) {
	sess := game.NewSetSession(s.SetRules)
	s.start(w, r, sess)
}

// start wires a new session to the server's sinks, issues its ticket and
// registers it with a socket hub.
func (s *Server) start(w http.ResponseWriter, r *http.Request, sess game.Session) {
	id := sess.GameID()
	sess.Attach(game.Sinks{
		Publishers: s.Publishers,
		Results:    s.Results,
		OnGameEnd: func(res models.GameResult) {
			log.Printf("Game %s: %s round finished, score %d.", id, res.Kind, res.Score)
		},
	})

	token, err := s.Tickets.Issue(id)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to issue ticket")
		return
	}
	s.register(sess)
	respondJSON(w, http.StatusCreated, GameCreated{GameID: id, Token: token})
}

func (s *Server) gameState(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid game id")
		return
	}
	sess, ok := s.Sessions.Get(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, "game not found")
		return
	}
	respondJSON(w, http.StatusOK, game.ObfuscatedState(sess))
}
