// internal/game/game.go
package game

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/matchcards/internal/models"
	log "github.com/sirupsen/logrus"
)

// OnGameEndFunc is executed once when a round finishes.
type OnGameEndFunc func(result models.GameResult)

// GameEventType represents the type of a game-related event broadcast via WebSockets.
type GameEventType string

const (
	EventCardChosen       GameEventType = "card_chosen"        // A card was turned or toggled.
	EventMatch            GameEventType = "match"              // The face-up cards form a match.
	EventMismatch         GameEventType = "mismatch"           // The face-up cards do not match.
	EventCardsDealt       GameEventType = "cards_dealt"        // Cards were added to or replaced on the tableau.
	EventTableauShuffled  GameEventType = "tableau_shuffled"   // Tableau order changed.
	EventChoiceRejected   GameEventType = "choice_rejected"    // An action was refused; state is unchanged.
	EventHint             GameEventType = "hint"               // A set currently on the tableau.
	EventGameEnd          GameEventType = "game_end"           // Round finished, includes results.
	EventPrivateSyncState GameEventType = "private_sync_state" // Full obfuscated state.
)

// Client action types accepted by HandleAction.
const (
	ActionChoose   = "choose"
	ActionDealMore = "deal_more"
	ActionShuffle  = "shuffle"
	ActionNewGame  = "new_game"
	ActionHint     = "hint"
	ActionSync     = "sync"
)

// ClientAction is one message read from a session socket.
type ClientAction struct {
	Type string    `json:"type"`
	Card uuid.UUID `json:"card,omitempty"`
}

// EventCard identifies a card within a GameEvent payload, optionally including details.
type EventCard struct {
	ID      uuid.UUID `json:"id"`
	Idx     *int      `json:"idx,omitempty"` // Tableau position, if on the tableau.
	State   string    `json:"state,omitempty"`
	Content string    `json:"content,omitempty"` // Memory emoji, only when face up or matched.
	Shape   string    `json:"shape,omitempty"`
	Color   string    `json:"color,omitempty"`
	Shading string    `json:"shading,omitempty"`
	Number  int       `json:"number,omitempty"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Card    *EventCard             `json:"card,omitempty"`  // Primary card involved.
	Cards   []EventCard            `json:"cards,omitempty"` // Cards of a match, mismatch, deal or hint.
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"` // Full obfuscated state for sync events.
}

// ActionPublisher receives every logged action. Implemented by cache.ActionPublisher
// and broker.Publisher.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, rec models.GameActionRecord) error
}

// ResultRecorder persists finished rounds. Implemented by database.ResultStore.
type ResultRecorder interface {
	RecordResult(ctx context.Context, r models.GameResult) error
}

// Session is a single playable game reachable over a socket. HandleAction and
// SendSync assume the caller holds the session lock.
type Session interface {
	sync.Locker
	GameID() uuid.UUID
	Kind() models.GameKind
	HandleAction(a ClientAction)
	SendSync()
	SetBroadcast(fn func(ev GameEvent))
	Attach(sinks Sinks)
}

// Sinks receive a session's action log, finished rounds and end notifications.
type Sinks struct {
	Publishers []ActionPublisher
	Results    ResultRecorder
	OnGameEnd  OnGameEndFunc
}

// base carries what every session shares: identity, callbacks, the action log
// and round bookkeeping.
type base struct {
	ID   uuid.UUID
	kind models.GameKind

	Mu sync.Mutex // Protects the engine and everything below.

	BroadcastFn func(ev GameEvent) // Sends an event to every socket of this session.
	OnGameEnd   OnGameEndFunc

	Publishers []ActionPublisher
	Results    ResultRecorder

	roundID     uuid.UUID // Keys the GameResult; equals ID for the first round.
	actionIndex int
	moves       int
	startedAt   time.Time
	GameOver    bool
}

func newBase(kind models.GameKind) base {
	id, _ := uuid.NewRandom()
	return base{ID: id, kind: kind, roundID: id, startedAt: time.Now()}
}

// Lock implements sync.Locker.
func (b *base) Lock() { b.Mu.Lock() }

// Unlock implements sync.Locker.
func (b *base) Unlock() { b.Mu.Unlock() }

// GameID returns the session id.
func (b *base) GameID() uuid.UUID { return b.ID }

// Kind returns the rules this session plays.
func (b *base) Kind() models.GameKind { return b.kind }

// SetBroadcast replaces the broadcast callback.
func (b *base) SetBroadcast(fn func(ev GameEvent)) { b.BroadcastFn = fn }

// Attach replaces the session's sinks.
func (b *base) Attach(sinks Sinks) {
	b.Publishers = sinks.Publishers
	b.Results = sinks.Results
	b.OnGameEnd = sinks.OnGameEnd
}

// seed derives the engine seed from the round id.
func (b *base) seed() uint64 {
	return binary.LittleEndian.Uint64(b.roundID[:8])
}

// newRound resets bookkeeping for a fresh engine.
func (b *base) newRound() {
	b.roundID, _ = uuid.NewRandom()
	b.moves = 0
	b.startedAt = time.Now()
	b.GameOver = false
}

// fireEvent broadcasts an event via the BroadcastFn callback.
// Assumes lock is held by caller.
func (b *base) fireEvent(ev GameEvent) {
	if b.BroadcastFn != nil {
		b.BroadcastFn(ev)
	} else {
		log.Printf("Warning: Game %s: BroadcastFn is nil, cannot broadcast event type %s.", b.ID, ev.Type)
	}
}

// reject tells clients an action was refused.
func (b *base) reject(action, reason string) {
	b.fireEvent(GameEvent{
		Type:    EventChoiceRejected,
		Payload: map[string]interface{}{"action": action, "reason": reason},
	})
}

// logAction hands an action record to every publisher asynchronously.
func (b *base) logAction(actionType string, payload map[string]interface{}) {
	b.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := models.GameActionRecord{
		GameID:        b.ID,
		Kind:          b.kind,
		ActionIndex:   b.actionIndex,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	for _, p := range b.Publishers {
		go func(p ActionPublisher, rec models.GameActionRecord) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := p.PublishGameAction(ctx, rec); err != nil {
				log.Printf("Error: Game %s: Failed publishing action %d ('%s'): %v", b.ID, rec.ActionIndex, rec.ActionType, err)
			}
		}(p, record)
	}
}

// finish marks the round over, logs it, broadcasts the result and persists it.
// Later calls in the same round are ignored. Assumes lock is held by caller.
func (b *base) finish(result models.GameResult) {
	if b.GameOver {
		return
	}
	b.GameOver = true
	result.GameID = b.roundID
	result.Kind = b.kind
	result.Moves = b.moves
	result.StartedAt = b.startedAt
	result.FinishedAt = time.Now()

	b.logAction(string(EventGameEnd), map[string]interface{}{
		"score":     result.Score,
		"setsFound": result.SetsFound,
		"moves":     result.Moves,
	})
	b.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"score":     result.Score,
			"setsFound": result.SetsFound,
			"moves":     result.Moves,
			"roundId":   result.GameID.String(),
		},
	})

	if b.Results != nil {
		go func(r models.GameResult) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := b.Results.RecordResult(ctx, r); err != nil {
				log.Printf("Error: Game %s: Failed recording result: %v", b.ID, err)
			}
		}(result)
	}
	if b.OnGameEnd != nil {
		b.OnGameEnd(result)
	}
	log.Printf("Game %s: Round %s ended after %d moves.", b.ID, b.roundID, b.moves)
}
