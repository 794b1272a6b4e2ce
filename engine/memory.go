package engine

// MemoryGame is a pair-matching game. Every card is dealt to the tableau
// at construction; matched cards stay where they are with StateMatched.
type MemoryGame[C comparable] struct {
	t       table[C]
	rules   MemoryRules
	pairs   int
	score   int
	matched int
	faceUp  []CardID // at most MemoryArity, in the order they were turned
}

// NewMemoryGame creates a game of pairs pairs (at least MinMemoryPairs).
// Cards 2i and 2i+1 share content(i).
func NewMemoryGame[C comparable](seed uint64, pairs int, content func(pairIndex int) C, rules MemoryRules) *MemoryGame[C] {
	if pairs < MinMemoryPairs {
		pairs = MinMemoryPairs
	}
	g := &MemoryGame[C]{rules: rules, pairs: pairs}
	g.t.build(seed, pairs*MemoryArity, func(i int) C { return content(i / MemoryArity) })
	g.dealAll()
	return g
}

func (g *MemoryGame[C]) dealAll() {
	for g.t.deal() {
	}
}

// Reset starts over with the same contents, reshuffled.
func (g *MemoryGame[C]) Reset() {
	g.t.rebuild()
	g.score, g.matched = 0, 0
	g.faceUp = g.faceUp[:0]
	g.dealAll()
}

// Choose turns the card with the given id face up and resolves the pair
// once two cards are showing.
//
//  1. If two cards are already showing, both go face down and become Seen.
//  2. The chosen card goes face up (no-op if it already is).
//  3. With two cards showing: equal content matches both and awards
//     MatchBonus; otherwise both are Mismatched and every Seen card among
//     them costs MismatchPenalty.
//
// Unknown ids return ErrNotFound and matched cards ErrAlreadyMatched; in
// both cases nothing changes.
func (g *MemoryGame[C]) Choose(id CardID) (Resolution, error) {
	chosen, ok := g.t.onTableau(id)
	if !ok {
		return ResolvedNone, ErrNotFound
	}
	if chosen.State == StateMatched {
		return ResolvedNone, ErrAlreadyMatched
	}

	if len(g.faceUp) == MemoryArity {
		for _, up := range g.faceUp {
			c := &g.t.cards[up]
			c.State = StateUnselected
			c.Seen = true
		}
		g.faceUp = g.faceUp[:0]
	}

	if !chosen.FaceUp() {
		chosen.State = StateSelected
		g.faceUp = append(g.faceUp, id)
	}

	if len(g.faceUp) < MemoryArity {
		return ResolvedNone, nil
	}

	a, b := &g.t.cards[g.faceUp[0]], &g.t.cards[g.faceUp[1]]
	if a.Content == b.Content {
		a.State, b.State = StateMatched, StateMatched
		g.score += g.rules.MatchBonus
		g.matched += MemoryArity
		g.faceUp = g.faceUp[:0]
		return ResolvedMatch, nil
	}

	a.State, b.State = StateMismatched, StateMismatched
	for _, c := range [...]*Card[C]{a, b} {
		if c.Seen {
			g.score -= g.rules.MismatchPenalty
		}
	}
	return ResolvedMismatch, nil
}

// ShuffleTableau reorders the tableau without touching card state.
func (g *MemoryGame[C]) ShuffleTableau() { g.t.shuffle() }

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Tableau returns a copy of the cards in display order.
func (g *MemoryGame[C]) Tableau() []Card[C] { return g.t.snapshot(g.t.tableau) }

// Card returns a copy of the card with the given id.
func (g *MemoryGame[C]) Card(id CardID) (Card[C], bool) { return g.t.lookup(id) }

// FaceUpIDs returns the ids currently showing, in the order they were turned.
func (g *MemoryGame[C]) FaceUpIDs() []CardID {
	return append([]CardID(nil), g.faceUp...)
}

// Score returns the running score.
func (g *MemoryGame[C]) Score() int { return g.score }

// MatchedCount returns the number of matched cards.
func (g *MemoryGame[C]) MatchedCount() int { return g.matched }

// Pairs returns the number of pairs in play.
func (g *MemoryGame[C]) Pairs() int { return g.pairs }

// DeckCount returns the cards not yet dealt; always 0 once constructed.
func (g *MemoryGame[C]) DeckCount() int { return g.t.deck.Remaining() }

// IsComplete reports whether every card has been matched.
func (g *MemoryGame[C]) IsComplete() bool { return g.matched == len(g.t.cards) }
