// internal/game/game_test.go
package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/matchcards/engine"
	"github.com/jason-s-yu/matchcards/internal/models"
	"github.com/jason-s-yu/matchcards/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster captures game events for testing assertions.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = nil
}

func (mb *mockBroadcaster) getLastEvent() *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) findEventByType(eventType GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

func (mb *mockBroadcaster) countType(eventType GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.allEvents {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

// recorder implements ActionPublisher and ResultRecorder.
type recorder struct {
	mu      sync.Mutex
	actions []models.GameActionRecord
	results []models.GameResult
}

func (r *recorder) PublishGameAction(_ context.Context, rec models.GameActionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, rec)
	return nil
}

func (r *recorder) RecordResult(_ context.Context, res models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions), len(r.results)
}

func setupMemory(t *testing.T) (*MemorySession, *mockBroadcaster, *recorder) {
	t.Helper()
	s := NewMemorySession(theme.DefaultThemes()[0], engine.DefaultMemoryRules())
	mb := &mockBroadcaster{}
	rec := &recorder{}
	s.SetBroadcast(mb.broadcastFn)
	s.Publishers = []ActionPublisher{rec}
	s.Results = rec
	return s, mb, rec
}

// memoryPairs groups the client ids of a Memory tableau by content.
func memoryPairs(s *MemorySession) map[string][]uuid.UUID {
	out := make(map[string][]uuid.UUID)
	for _, c := range s.Engine.Tableau() {
		out[c.Content] = append(out[c.Content], s.Cards.UUID(c.ID))
	}
	return out
}

func choose(s Session, id uuid.UUID) {
	s.Lock()
	defer s.Unlock()
	s.HandleAction(ClientAction{Type: ActionChoose, Card: id})
}

func TestMemorySessionDealsTheme(t *testing.T) {
	s, _, _ := setupMemory(t)
	assert.Equal(t, models.KindMemory, s.Kind())
	assert.Equal(t, 4, s.Engine.Pairs())
	assert.Equal(t, 8, s.Cards.Len())
	for content, ids := range memoryPairs(s) {
		assert.Len(t, ids, 2, content)
	}
}

func TestMemoryChooseMatch(t *testing.T) {
	s, mb, _ := setupMemory(t)
	ids := memoryPairs(s)["🍔"]
	require.Len(t, ids, 2)

	choose(s, ids[0])
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventCardChosen, ev.Type)
	require.NotNil(t, ev.Card)
	assert.Equal(t, ids[0], ev.Card.ID)
	assert.Equal(t, "🍔", ev.Card.Content, "face-up card reveals content")

	choose(s, ids[1])
	match := mb.getLastEvent()
	require.NotNil(t, match)
	assert.Equal(t, EventMatch, match.Type)
	require.Len(t, match.Cards, 2)
	assert.Equal(t, ids[0], match.Cards[0].ID)
	assert.Equal(t, ids[1], match.Cards[1].ID)
	assert.Equal(t, "matched", match.Cards[1].State)
	assert.Equal(t, 2, s.Engine.Score())
}

func TestMemoryMismatchHidesContentAfterFlipBack(t *testing.T) {
	s, mb, _ := setupMemory(t)
	pairs := memoryPairs(s)
	a, b, c := pairs["🍔"][0], pairs["🍕"][0], pairs["🍟"][0]

	choose(s, a)
	choose(s, b)
	require.NotNil(t, mb.findEventByType(EventMismatch))
	assert.Equal(t, 0, s.Engine.Score(), "unseen cards cost nothing")

	choose(s, c)
	state := ObfuscatedState(s)
	for _, card := range state.Cards {
		if card.ID == a || card.ID == b {
			assert.Empty(t, card.Content, "face-down card must not reveal content")
			assert.Equal(t, "unselected", card.State)
		}
		if card.ID == c {
			assert.Equal(t, "🍟", card.Content)
		}
	}
}

func TestMemoryRejectsUnknownAndMatched(t *testing.T) {
	s, mb, _ := setupMemory(t)
	choose(s, uuid.New())
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventChoiceRejected, ev.Type)
	assert.Equal(t, engine.ErrNotFound.Error(), ev.Payload["reason"])

	ids := memoryPairs(s)["🍣"]
	choose(s, ids[0])
	choose(s, ids[1])
	mb.clear()

	choose(s, ids[0])
	ev = mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventChoiceRejected, ev.Type)
	assert.Equal(t, engine.ErrAlreadyMatched.Error(), ev.Payload["reason"])
	assert.Equal(t, 2, s.Engine.Score())
	assert.Equal(t, 2, s.moves, "rejected choices are not moves")
}

func TestMemoryPerfectGameEndsOnce(t *testing.T) {
	s, mb, rec := setupMemory(t)
	var ended []models.GameResult
	s.OnGameEnd = func(r models.GameResult) { ended = append(ended, r) }

	for _, ids := range memoryPairs(s) {
		choose(s, ids[0])
		choose(s, ids[1])
	}

	require.Len(t, ended, 1)
	assert.Equal(t, 8, ended[0].Score)
	assert.Equal(t, 8, ended[0].Moves)
	assert.Equal(t, "Food", ended[0].ThemeName)
	assert.Equal(t, s.ID, ended[0].GameID, "first round is keyed by the session id")
	assert.Equal(t, 1, mb.countType(EventGameEnd))
	assert.True(t, s.GameOver)

	choose(s, uuid.New())
	assert.Equal(t, "game over", mb.getLastEvent().Payload["reason"])

	assert.Eventually(t, func() bool {
		actions, results := rec.counts()
		return actions == 9 && results == 1
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryNewGame(t *testing.T) {
	s, mb, _ := setupMemory(t)
	ids := memoryPairs(s)["🍔"]
	choose(s, ids[0])
	choose(s, ids[1])
	oldRound := s.roundID

	s.Lock()
	s.HandleAction(ClientAction{Type: ActionNewGame})
	s.Unlock()

	assert.NotEqual(t, oldRound, s.roundID)
	assert.Equal(t, 0, s.Engine.Score())
	assert.Equal(t, 0, s.moves)
	_, ok := s.Cards.Engine(ids[0])
	assert.False(t, ok, "card ids are reassigned each round")

	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventPrivateSyncState, ev.Type)
	require.NotNil(t, ev.State)
	assert.Len(t, ev.State.Cards, 8)
	for _, c := range ev.State.Cards {
		assert.Empty(t, c.Content)
	}
}

func TestMemoryUnsupportedActions(t *testing.T) {
	s, mb, _ := setupMemory(t)
	for _, typ := range []string{ActionDealMore, ActionHint, "fly"} {
		s.Lock()
		s.HandleAction(ClientAction{Type: typ})
		s.Unlock()
		ev := mb.getLastEvent()
		require.NotNil(t, ev)
		assert.Equal(t, EventChoiceRejected, ev.Type, typ)
	}
}

func setupSet(t *testing.T, rules engine.SetRules) (*SetSession, *mockBroadcaster) {
	t.Helper()
	s := NewSetSession(rules)
	mb := &mockBroadcaster{}
	s.SetBroadcast(mb.broadcastFn)
	return s, mb
}

// ensureSet deals until the tableau holds a set and returns its client ids.
func ensureSet(t *testing.T, s *SetSession) [3]uuid.UUID {
	t.Helper()
	for {
		if ids, ok := s.Engine.FindSet(); ok {
			return [3]uuid.UUID{s.Cards.UUID(ids[0]), s.Cards.UUID(ids[1]), s.Cards.UUID(ids[2])}
		}
		require.NoError(t, s.Engine.DealMore(), "deck ran out without a set")
	}
}

func TestSetSessionDeals(t *testing.T) {
	s, _ := setupSet(t, engine.DefaultSetRules())
	assert.Equal(t, models.KindSet, s.Kind())
	assert.Equal(t, 81, s.Cards.Len())
	state := ObfuscatedState(s)
	assert.Len(t, state.Cards, 12)
	assert.Equal(t, 69, state.DeckCount)
	for _, c := range state.Cards {
		assert.NotEmpty(t, c.Shape)
		assert.NotZero(t, c.Number)
	}
}

func TestSetChooseMatchThenClear(t *testing.T) {
	s, mb := setupSet(t, engine.DefaultSetRules())
	set := ensureSet(t, s)
	before := len(s.Engine.Tableau())

	for _, id := range set {
		choose(s, id)
	}
	match := mb.getLastEvent()
	require.NotNil(t, match)
	assert.Equal(t, EventMatch, match.Type)
	assert.Len(t, match.Cards, 3)
	assert.Equal(t, 1, match.Payload["setsFound"])
	assert.True(t, ObfuscatedState(s).Pending)

	// Any other card clears the match first.
	var other uuid.UUID
	for _, c := range s.Engine.Tableau() {
		if c.State != engine.StateMatched {
			other = s.Cards.UUID(c.ID)
			break
		}
	}
	mb.clear()
	choose(s, other)
	dealt := mb.findEventByType(EventCardsDealt)
	require.NotNil(t, dealt)
	assert.Equal(t, true, dealt.Payload["replaced"])
	assert.Equal(t, EventCardChosen, mb.getLastEvent().Type)
	assert.Len(t, s.Engine.Tableau(), before)
	assert.Equal(t, 1, s.Engine.SetsFound())
	assert.Equal(t, []engine.CardID{mustEngine(t, s, other)}, s.Engine.SelectedIDs())
}

func mustEngine(t *testing.T, s *SetSession, id uuid.UUID) engine.CardID {
	t.Helper()
	c, ok := s.Cards.Engine(id)
	require.True(t, ok)
	return c
}

func TestSetDealMoreAndExhaustion(t *testing.T) {
	s, mb := setupSet(t, engine.SetRules{TotalCards: 15, InitialDeal: 12, DealSize: 3})
	s.Lock()
	s.HandleAction(ClientAction{Type: ActionDealMore})
	s.Unlock()
	assert.Len(t, s.Engine.Tableau(), 15)
	assert.Equal(t, 0, s.Engine.DeckCount())
	require.NotNil(t, mb.findEventByType(EventCardsDealt))

	if s.GameOver {
		return // no set among the 15 dealt cards
	}
	s.Lock()
	s.HandleAction(ClientAction{Type: ActionDealMore})
	s.Unlock()
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventChoiceRejected, ev.Type)
	assert.Equal(t, engine.ErrExhausted.Error(), ev.Payload["reason"])
}

func TestSetHint(t *testing.T) {
	s, mb := setupSet(t, engine.DefaultSetRules())
	ensureSet(t, s)
	s.Lock()
	s.HandleAction(ClientAction{Type: ActionHint})
	s.Unlock()
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventHint, ev.Type)
	assert.Equal(t, true, ev.Payload["found"])
	require.Len(t, ev.Cards, 3)

	var cards [3]engine.SetCard
	for i, c := range ev.Cards {
		card, ok := s.Engine.Card(mustEngine(t, s, c.ID))
		require.True(t, ok)
		cards[i] = card.Content
	}
	assert.True(t, engine.IsSet(cards[0], cards[1], cards[2]))
}

func TestSetShuffleKeepsCards(t *testing.T) {
	s, mb := setupSet(t, engine.DefaultSetRules())
	before := ObfuscatedState(s).Cards
	s.Lock()
	s.HandleAction(ClientAction{Type: ActionShuffle})
	s.Unlock()
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventTableauShuffled, ev.Type)
	require.NotNil(t, ev.State)

	ids := func(cs []EventCard) []uuid.UUID {
		out := make([]uuid.UUID, len(cs))
		for i, c := range cs {
			out[i] = c.ID
		}
		return out
	}
	assert.ElementsMatch(t, ids(before), ids(ev.State.Cards))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	m := NewMemorySession(theme.NewTheme(), engine.DefaultMemoryRules())
	s := NewSetSession(engine.DefaultSetRules())
	r.Add(m)
	r.Add(s)
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(s.GameID())
	require.True(t, ok)
	assert.Equal(t, models.KindSet, got.Kind())

	r.Remove(m.GameID())
	r.Remove(uuid.New())
	_, ok = r.Get(m.GameID())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestTrackerUnknownEngineID(t *testing.T) {
	tr := NewCardUUIDTracker(2)
	assert.Equal(t, uuid.Nil, tr.UUID(engine.NoCard))
	assert.Equal(t, uuid.Nil, tr.UUID(2))
	id := tr.UUID(1)
	got, ok := tr.Engine(id)
	require.True(t, ok)
	assert.Equal(t, engine.CardID(1), got)
}
