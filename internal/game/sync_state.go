// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/matchcards/engine"
	"github.com/jason-s-yu/matchcards/internal/models"
)

// ObfGameState is the full session state as clients may see it. Memory
// content stays hidden until a card is face up or matched.
type ObfGameState struct {
	GameID       uuid.UUID       `json:"gameId"`
	RoundID      uuid.UUID       `json:"roundId"`
	Kind         models.GameKind `json:"kind"`
	ThemeName    string          `json:"themeName,omitempty"`
	ThemeColor   *models.RGBA    `json:"themeColor,omitempty"`
	Cards        []EventCard     `json:"cards"`
	DeckCount    int             `json:"deckCount"`
	DiscardCount int             `json:"discardCount"`
	Score        int             `json:"score"`
	MatchedCount int             `json:"matchedCount"`
	SetsFound    int             `json:"setsFound"`
	Pending      bool            `json:"pendingClearance"`
	Moves        int             `json:"moves"`
	GameOver     bool            `json:"gameOver"`
}

// obfuscatedState snapshots the Memory engine. Assumes lock is held.
func (s *MemorySession) obfuscatedState() ObfGameState {
	tableau := s.Engine.Tableau()
	color := s.Theme.Color
	obf := ObfGameState{
		GameID:       s.ID,
		RoundID:      s.roundID,
		Kind:         s.kind,
		ThemeName:    s.Theme.Name,
		ThemeColor:   &color,
		Cards:        make([]EventCard, 0, len(tableau)),
		DeckCount:    s.Engine.DeckCount(),
		Score:        s.Engine.Score(),
		MatchedCount: s.Engine.MatchedCount(),
		Moves:        s.moves,
		GameOver:     s.GameOver,
	}
	for i, c := range tableau {
		obf.Cards = append(obf.Cards, memoryEventCard(&s.Cards, c, i))
	}
	return obf
}

// obfuscatedState snapshots the Set engine. Assumes lock is held.
func (s *SetSession) obfuscatedState() ObfGameState {
	tableau := s.Engine.Tableau()
	obf := ObfGameState{
		GameID:       s.ID,
		RoundID:      s.roundID,
		Kind:         s.kind,
		Cards:        make([]EventCard, 0, len(tableau)),
		DeckCount:    s.Engine.DeckCount(),
		DiscardCount: len(s.Engine.Discard()),
		Score:        s.Engine.SetsFound(),
		MatchedCount: s.Engine.MatchedCount(),
		SetsFound:    s.Engine.SetsFound(),
		Pending:      s.Engine.Phase() == engine.PhasePendingClearance,
		Moves:        s.moves,
		GameOver:     s.GameOver,
	}
	for i, c := range tableau {
		obf.Cards = append(obf.Cards, setEventCard(&s.Cards, c, i))
	}
	return obf
}

// ObfuscatedState returns the public snapshot under the session lock.
func ObfuscatedState(s Session) ObfGameState {
	s.Lock()
	defer s.Unlock()
	switch g := s.(type) {
	case *MemorySession:
		return g.obfuscatedState()
	case *SetSession:
		return g.obfuscatedState()
	}
	return ObfGameState{GameID: s.GameID(), Kind: s.Kind()}
}
