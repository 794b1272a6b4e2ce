//go:build integration

package engine

// integration_test.go: Full-game playthroughs using only the public API.
//
// Run: go test -tags integration -run TestIntegration ./engine

import (
	"math/rand"
	"testing"
)

// TestIntegrationSetPlaythrough plays many Set games to the end using hints.
func TestIntegrationSetPlaythrough(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		g := NewSetGame(seed, DefaultSetRules(), StandardSetCard)
		for steps := 0; !g.IsOver(); steps++ {
			if steps > 1000 {
				t.Fatalf("seed %d: game did not finish", seed)
			}
			set, ok := g.FindSet()
			if !ok {
				if err := g.DealMore(); err != nil {
					t.Fatalf("seed %d: no set and DealMore: %v", seed, err)
				}
				continue
			}
			for i, id := range set {
				res, err := g.Choose(id)
				if err != nil {
					t.Fatalf("seed %d: Choose(%d): %v", seed, id, err)
				}
				if i == SetArity-1 && res != ResolvedMatch {
					t.Fatalf("seed %d: hinted set resolved as %v", seed, res)
				}
			}
			_ = g.DealMore() // clear the pending match
		}

		if g.DeckCount() != 0 {
			t.Errorf("seed %d: game over with %d in deck", seed, g.DeckCount())
		}
		total := len(g.Tableau()) + len(g.Discard())
		if total != SetDeckSize {
			t.Errorf("seed %d: %d cards accounted for, want %d", seed, total, SetDeckSize)
		}
		if g.SetsFound()*SetArity != len(g.Discard()) {
			t.Errorf("seed %d: SetsFound=%d discard=%d", seed, g.SetsFound(), len(g.Discard()))
		}
	}
}

// TestIntegrationMemoryRandomPlay plays random Memory games to completion.
func TestIntegrationMemoryRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for seed := uint64(1); seed <= 100; seed++ {
		pairs := 2 + rng.Intn(9)
		g := NewMemoryGame(seed, pairs, func(i int) int { return i }, DefaultMemoryRules())
		for steps := 0; !g.IsComplete(); steps++ {
			if steps > 100000 {
				t.Fatalf("seed %d: game did not finish", seed)
			}
			tab := g.Tableau()
			_, _ = g.Choose(tab[rng.Intn(len(tab))].ID)
			if len(g.FaceUpIDs()) > MemoryArity {
				t.Fatalf("seed %d: %d cards face up", seed, len(g.FaceUpIDs()))
			}
		}
		if g.MatchedCount() != 2*pairs {
			t.Errorf("seed %d: MatchedCount = %d, want %d", seed, g.MatchedCount(), 2*pairs)
		}
		if g.Score() > 2*pairs {
			t.Errorf("seed %d: Score = %d exceeds maximum %d", seed, g.Score(), 2*pairs)
		}
	}
}
