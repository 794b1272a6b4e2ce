// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/matchcards/internal/auth"
	"github.com/jason-s-yu/matchcards/internal/game"
	log "github.com/sirupsen/logrus"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// client is one socket attached to a session.
type client struct {
	send chan []byte
}

// hub fans session events out to every attached socket. attached and
// reaper are guarded by Server.mu.
type hub struct {
	id      uuid.UUID
	mu      sync.Mutex
	clients map[*client]struct{}

	attached bool
	reaper   *time.Timer
}

func newClient() *client {
	return &client{send: make(chan []byte, sendBuffer)}
}

// register gives sess a hub and makes it visible. Until a socket attaches,
// the session is dropped after AttachTimeout.
func (s *Server) register(sess game.Session) {
	id := sess.GameID()
	h := &hub{id: id, clients: make(map[*client]struct{})}
	sess.SetBroadcast(h.broadcast)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hubs[id] = h
	s.Sessions.Add(sess)
	if s.AttachTimeout > 0 {
		h.reaper = time.AfterFunc(s.AttachTimeout, func() { s.reap(h) })
	}
}

// attach adds c to the live hub of session id. It fails once the session
// has been dropped.
func (s *Server) attach(id uuid.UUID, c *client) (*hub, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hubs[id]
	if !ok {
		return nil, false
	}
	if !h.attached {
		h.attached = true
		if h.reaper != nil {
			h.reaper.Stop()
		}
	}
	h.add(c)
	return h, true
}

// detach removes c and drops the session when it was the last socket.
func (s *Server) detach(h *hub, c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !h.remove(c) {
		return
	}
	s.dropLocked(h)
	log.Printf("Game %s: Last client left, session closed.", h.id)
}

// reap drops a session nobody attached to in time.
func (s *Server) reap(h *hub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.attached {
		return
	}
	s.dropLocked(h)
	log.Printf("Game %s: No client attached, session closed.", h.id)
}

// dropLocked forgets h and its session. s.mu must be held.
func (s *Server) dropLocked(h *hub) {
	if s.hubs[h.id] != h {
		return
	}
	delete(s.hubs, h.id)
	s.Sessions.Remove(h.id)
}

// broadcast is the session's BroadcastFn. Slow clients lose the event.
func (h *hub) broadcast(ev game.GameEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error: Game %s: failed to marshal event %s: %v", h.id, ev.Type, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("Warning: Game %s: dropping %s for a slow client.", h.id, ev.Type)
		}
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// remove detaches c and reports whether the hub is now empty.
func (h *hub) remove(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	close(c.send)
	return len(h.clients) == 0
}

// serveWS upgrades an authorised request and runs the session socket.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
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
	if err := s.Tickets.Verify(r.URL.Query().Get("token"), id); err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrInvalidTicket) && !errors.Is(err, auth.ErrExpiredTicket) {
			status = http.StatusInternalServerError
		}
		respondError(w, r, status, err.Error())
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.AllowedOrigins})
	if err != nil {
		log.Printf("Game %s: websocket accept failed: %v", id, err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient()
	// Initial state goes to this client only.
	if data, err := json.Marshal(game.GameEvent{Type: game.EventPrivateSyncState, State: stateOf(sess)}); err == nil {
		c.send <- data
	}
	h, ok := s.attach(id, c)
	if !ok {
		conn.Close(websocket.StatusGoingAway, "game closed")
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(ctx, conn, c)
		cancel()
	}()

	s.readLoop(ctx, conn, sess, c)

	s.detach(h, c)
	cancel()
	<-done
	conn.Close(websocket.StatusNormalClosure, "")
}

func stateOf(sess game.Session) *game.ObfGameState {
	st := game.ObfuscatedState(sess)
	return &st
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, sess game.Session, c *client) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				log.Debugf("Game %s: read ended: %v", sess.GameID(), err)
			}
			return
		}

		var action game.ClientAction
		if err := json.Unmarshal(data, &action); err != nil {
			rejected, _ := json.Marshal(game.GameEvent{
				Type:    game.EventChoiceRejected,
				Payload: map[string]interface{}{"reason": "malformed message"},
			})
			select {
			case c.send <- rejected:
			default:
			}
			continue
		}

		sess.Lock()
		sess.HandleAction(action)
		sess.Unlock()
	}
}
