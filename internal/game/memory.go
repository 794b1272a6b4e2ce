// internal/game/memory.go
package game

import (
	"errors"

	engine "github.com/jason-s-yu/matchcards/engine"
	"github.com/jason-s-yu/matchcards/internal/models"
	"github.com/jason-s-yu/matchcards/internal/theme"
	log "github.com/sirupsen/logrus"
)

// MemorySession plays a themed pair-matching game.
type MemorySession struct {
	base

	Theme  models.Theme
	Rules  engine.MemoryRules
	Engine *engine.MemoryGame[string] // Authoritative game state.
	Cards  CardUUIDTracker
}

// NewMemorySession deals a Memory game for t. The pair count is clamped to
// the theme's emoji list.
func NewMemorySession(t models.Theme, rules engine.MemoryRules) *MemorySession {
	s := &MemorySession{base: newBase(models.KindMemory), Theme: theme.Normalize(t), Rules: rules}
	s.deal()
	log.Printf("Game %s: Memory session created with theme %q (%d pairs).", s.ID, s.Theme.Name, s.Engine.Pairs())
	return s
}

func (s *MemorySession) deal() {
	s.Engine = engine.NewMemoryGame(s.seed(), s.Theme.NumberOfPairsOfCards, theme.ContentFactory(s.Theme), s.Rules)
	s.Cards = NewCardUUIDTracker(s.Engine.Pairs() * engine.MemoryArity)
}

// HandleAction routes a client action. Assumes lock is held by the caller.
func (s *MemorySession) HandleAction(a ClientAction) {
	switch a.Type {
	case ActionChoose:
		s.choose(a)
	case ActionShuffle:
		s.Engine.ShuffleTableau()
		s.logAction(string(EventTableauShuffled), nil)
		state := s.obfuscatedState()
		s.fireEvent(GameEvent{Type: EventTableauShuffled, State: &state})
	case ActionNewGame:
		s.newRound()
		s.deal()
		s.logAction("new_game", map[string]interface{}{"roundId": s.roundID.String()})
		s.SendSync()
	case ActionSync:
		s.SendSync()
	case ActionDealMore, ActionHint:
		s.reject(a.Type, "not available in memory")
	default:
		log.Printf("Game %s: Unknown action type %q.", s.ID, a.Type)
		s.reject(a.Type, "unknown action")
	}
}

func (s *MemorySession) choose(a ClientAction) {
	if s.GameOver {
		s.reject(a.Type, "game over")
		return
	}
	id, ok := s.Cards.Engine(a.Card)
	if !ok {
		s.reject(a.Type, engine.ErrNotFound.Error())
		return
	}

	// A lone face-up card is the partner of this choice.
	partner := engine.NoCard
	if up := s.Engine.FaceUpIDs(); len(up) == 1 && up[0] != id {
		partner = up[0]
	}

	res, err := s.Engine.Choose(id)
	if err != nil {
		if !errors.Is(err, engine.ErrAlreadyMatched) {
			log.Printf("Game %s: Unexpected choose error: %v", s.ID, err)
		}
		s.reject(a.Type, err.Error())
		return
	}
	s.moves++

	pos := positions(s.Engine.Tableau())
	chosen := s.eventCard(id, pos)
	s.logAction(string(EventCardChosen), map[string]interface{}{"card": chosen.ID.String(), "resolution": res.String()})
	s.fireEvent(GameEvent{Type: EventCardChosen, Card: &chosen, Payload: map[string]interface{}{"score": s.Engine.Score()}})

	if res == engine.ResolvedNone || partner == engine.NoCard {
		return
	}
	pair := []EventCard{s.eventCard(partner, pos), chosen}
	evType := EventMismatch
	if res == engine.ResolvedMatch {
		evType = EventMatch
	}
	s.fireEvent(GameEvent{
		Type:  evType,
		Cards: pair,
		Payload: map[string]interface{}{
			"score":   s.Engine.Score(),
			"matched": s.Engine.MatchedCount(),
		},
	})

	if s.Engine.IsComplete() {
		s.finish(models.GameResult{ThemeName: s.Theme.Name, Score: s.Engine.Score()})
	}
}

func (s *MemorySession) eventCard(id engine.CardID, pos map[engine.CardID]int) EventCard {
	c, _ := s.Engine.Card(id)
	return memoryEventCard(&s.Cards, c, indexOf(pos, id))
}

// SendSync broadcasts the current obfuscated state. Assumes lock is held.
func (s *MemorySession) SendSync() {
	state := s.obfuscatedState()
	s.fireEvent(GameEvent{Type: EventPrivateSyncState, State: &state})
}
