// internal/game/set.go
package game

import (
	"errors"

	engine "github.com/jason-s-yu/matchcards/engine"
	"github.com/jason-s-yu/matchcards/internal/models"
	log "github.com/sirupsen/logrus"
)

// SetSession plays a game of Set.
type SetSession struct {
	base

	Rules  engine.SetRules
	Engine *engine.SetGame // Authoritative game state.
	Cards  CardUUIDTracker
}

// NewSetSession deals a Set game with the standard 81-card deck.
func NewSetSession(rules engine.SetRules) *SetSession {
	s := &SetSession{base: newBase(models.KindSet), Rules: rules}
	s.deal()
	log.Printf("Game %s: Set session created (%d on tableau, %d in deck).", s.ID, len(s.Engine.Tableau()), s.Engine.DeckCount())
	return s
}

func (s *SetSession) deal() {
	s.Engine = engine.NewSetGame(s.seed(), s.Rules, nil)
	n := len(s.Engine.Tableau()) + s.Engine.DeckCount()
	s.Cards = NewCardUUIDTracker(n)
}

// HandleAction routes a client action. Assumes lock is held by the caller.
func (s *SetSession) HandleAction(a ClientAction) {
	switch a.Type {
	case ActionChoose:
		s.choose(a)
	case ActionDealMore:
		s.dealMore(a)
	case ActionHint:
		s.hint()
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
	default:
		log.Printf("Game %s: Unknown action type %q.", s.ID, a.Type)
		s.reject(a.Type, "unknown action")
	}
}

func (s *SetSession) choose(a ClientAction) {
	if s.GameOver {
		s.reject(a.Type, "game over")
		return
	}
	id, ok := s.Cards.Engine(a.Card)
	if !ok {
		s.reject(a.Type, engine.ErrNotFound.Error())
		return
	}

	cleared := s.Engine.Phase() == engine.PhasePendingClearance
	res, err := s.Engine.Choose(id)
	if err != nil {
		if !errors.Is(err, engine.ErrNotFound) && !errors.Is(err, engine.ErrAlreadyMatched) {
			log.Printf("Game %s: Unexpected choose error: %v", s.ID, err)
		}
		s.reject(a.Type, err.Error())
		return
	}
	s.moves++

	if cleared {
		s.fireDealt(true)
	}

	pos := positions(s.Engine.Tableau())
	chosen := s.eventCard(id, pos)
	s.logAction(string(EventCardChosen), map[string]interface{}{"card": chosen.ID.String(), "resolution": res.String()})
	s.fireEvent(GameEvent{Type: EventCardChosen, Card: &chosen})

	if res == engine.ResolvedNone {
		s.checkOver()
		return
	}
	evType := EventMismatch
	if res == engine.ResolvedMatch {
		evType = EventMatch
	}
	s.fireEvent(GameEvent{
		Type:    evType,
		Cards:   s.eventCards(s.Engine.SelectedIDs(), pos),
		Payload: map[string]interface{}{"setsFound": s.Engine.SetsFound()},
	})
	s.checkOver()
}

func (s *SetSession) dealMore(a ClientAction) {
	if s.GameOver {
		s.reject(a.Type, "game over")
		return
	}
	replaced := s.Engine.Phase() == engine.PhasePendingClearance
	if err := s.Engine.DealMore(); err != nil {
		s.reject(a.Type, err.Error())
		return
	}
	s.logAction(string(EventCardsDealt), map[string]interface{}{"replaced": replaced})
	s.fireDealt(replaced)
	s.checkOver()
}

// fireDealt broadcasts the tableau after cards were appended or replaced.
func (s *SetSession) fireDealt(replaced bool) {
	state := s.obfuscatedState()
	s.fireEvent(GameEvent{
		Type:    EventCardsDealt,
		Payload: map[string]interface{}{"replaced": replaced, "deckCount": s.Engine.DeckCount()},
		State:   &state,
	})
}

func (s *SetSession) hint() {
	ids, ok := s.Engine.FindSet()
	if !ok {
		s.fireEvent(GameEvent{Type: EventHint, Payload: map[string]interface{}{"found": false}})
		return
	}
	s.logAction(string(EventHint), nil)
	pos := positions(s.Engine.Tableau())
	s.fireEvent(GameEvent{
		Type:    EventHint,
		Cards:   s.eventCards(ids[:], pos),
		Payload: map[string]interface{}{"found": true},
	})
}

// checkOver ends the round once the deck is empty and no set remains. A
// pending match still counts as found.
func (s *SetSession) checkOver() {
	if s.Engine.IsOver() {
		s.finish(models.GameResult{SetsFound: s.Engine.SetsFound(), Score: s.Engine.SetsFound()})
	}
}

func (s *SetSession) eventCard(id engine.CardID, pos map[engine.CardID]int) EventCard {
	c, _ := s.Engine.Card(id)
	return setEventCard(&s.Cards, c, indexOf(pos, id))
}

func (s *SetSession) eventCards(ids []engine.CardID, pos map[engine.CardID]int) []EventCard {
	out := make([]EventCard, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.eventCard(id, pos))
	}
	return out
}

// SendSync broadcasts the current obfuscated state. Assumes lock is held.
func (s *SetSession) SendSync() {
	state := s.obfuscatedState()
	s.fireEvent(GameEvent{Type: EventPrivateSyncState, State: &state})
}
