// internal/handlers/router.go
package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jason-s-yu/matchcards/engine"
	"github.com/jason-s-yu/matchcards/internal/auth"
	"github.com/jason-s-yu/matchcards/internal/game"
	"github.com/jason-s-yu/matchcards/internal/theme"
)

// Server holds the dependencies shared by all routes.
type Server struct {
	Themes   *theme.Chooser
	Sessions *game.Registry
	Tickets  *auth.Issuer

	Publishers     []game.ActionPublisher
	Results        game.ResultRecorder
	History        ResultLister
	MemoryRules    engine.MemoryRules
	SetRules       engine.SetRules
	AllowedOrigins []string

	// AttachTimeout bounds how long a session waits for its first socket.
	AttachTimeout time.Duration

	mu   sync.Mutex
	hubs map[uuid.UUID]*hub
}

// NewServer returns a Server with default engine rules. Sessions that see no
// socket within the ticket lifetime are dropped.
func NewServer(themes *theme.Chooser, sessions *game.Registry, tickets *auth.Issuer) *Server {
	return &Server{
		Themes:        themes,
		Sessions:      sessions,
		Tickets:       tickets,
		MemoryRules:   engine.DefaultMemoryRules(),
		SetRules:      engine.DefaultSetRules(),
		AttachTimeout: tickets.TTL(),
		hubs:          make(map[uuid.UUID]*hub),
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "sessions": s.Sessions.Len()})
	})

	r.Route("/themes", func(r chi.Router) {
		r.Use(middleware.Logger)
		r.Get("/", s.listThemes)
		r.Post("/", s.createTheme)
		r.Put("/{index}", s.updateTheme)
		r.Delete("/{index}", s.deleteTheme)
		r.Post("/{index}/emojis", s.addEmoji)
		r.Delete("/{index}/emojis/{emoji}", s.removeEmoji)
		r.Put("/{index}/pairs", s.setPairs)
	})

	r.Route("/games", func(r chi.Router) {
		r.With(middleware.Logger).Post("/memory", s.createMemory)
		r.With(middleware.Logger).Post("/set", s.createSet)
		r.Get("/{id}", s.gameState)
		r.Get("/{id}/ws", s.serveWS)
	})

	r.Get("/results", s.listResults)
	return r
}
