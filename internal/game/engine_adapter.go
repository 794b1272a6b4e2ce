// engine_adapter.go: Bridge between engine card ids and the uuids clients see.
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/matchcards/engine"
)

// CardUUIDTracker pairs every engine card with a random UUID so clients
// cannot infer content from ids. Reassigned every round.
type CardUUIDTracker struct {
	toUUID   []uuid.UUID
	toEngine map[uuid.UUID]engine.CardID
}

// NewCardUUIDTracker assigns UUIDs to engine ids 0..n-1.
func NewCardUUIDTracker(n int) CardUUIDTracker {
	t := CardUUIDTracker{
		toUUID:   make([]uuid.UUID, n),
		toEngine: make(map[uuid.UUID]engine.CardID, n),
	}
	for i := range t.toUUID {
		id, _ := uuid.NewRandom()
		t.toUUID[i] = id
		t.toEngine[id] = engine.CardID(i)
	}
	return t
}

// UUID returns the client id of an engine card, or uuid.Nil.
func (t *CardUUIDTracker) UUID(id engine.CardID) uuid.UUID {
	if id < 0 || int(id) >= len(t.toUUID) {
		return uuid.Nil
	}
	return t.toUUID[id]
}

// Engine resolves a client id.
func (t *CardUUIDTracker) Engine(id uuid.UUID) (engine.CardID, bool) {
	c, ok := t.toEngine[id]
	return c, ok
}

// Len returns the number of tracked cards.
func (t *CardUUIDTracker) Len() int { return len(t.toUUID) }

// memoryEventCard converts a Memory card. Content is revealed only once the
// card is face up or matched.
func memoryEventCard(tr *CardUUIDTracker, c engine.Card[string], idx int) EventCard {
	ev := EventCard{ID: tr.UUID(c.ID), State: c.State.String()}
	if idx >= 0 {
		ev.Idx = &idx
	}
	if c.FaceUp() || c.State == engine.StateMatched {
		ev.Content = c.Content
	}
	return ev
}

// setEventCard converts a Set card. Set cards are always face up.
func setEventCard(tr *CardUUIDTracker, c engine.Card[engine.SetCard], idx int) EventCard {
	ev := EventCard{
		ID:      tr.UUID(c.ID),
		State:   c.State.String(),
		Shape:   c.Content.ShapeName(),
		Color:   c.Content.ColorName(),
		Shading: c.Content.ShadingName(),
		Number:  int(c.Content.Number()),
	}
	if idx >= 0 {
		ev.Idx = &idx
	}
	return ev
}

// positions maps card ids to their tableau index.
func positions[C any](tableau []engine.Card[C]) map[engine.CardID]int {
	m := make(map[engine.CardID]int, len(tableau))
	for i, c := range tableau {
		m[c.ID] = i
	}
	return m
}

// indexOf returns the tableau index of id, or -1.
func indexOf(pos map[engine.CardID]int, id engine.CardID) int {
	if i, ok := pos[id]; ok {
		return i
	}
	return -1
}
