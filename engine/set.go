package engine

// SetGame is the triple-matching game. Matched triples stay on the tableau
// until the next interaction (PhasePendingClearance), which discards them
// and refills their positions from the deck.
type SetGame struct {
	t        table[SetCard]
	rules    SetRules
	phase    Phase
	selected []CardID // at most SetArity, in selection order
}

// NewSetGame creates a Set game and deals rules.InitialDeal cards.
// Out-of-range rules are clamped (see SetRules).
func NewSetGame(seed uint64, rules SetRules, content func(index int) SetCard) *SetGame {
	g := &SetGame{rules: rules.normalized()}
	if content == nil {
		content = StandardSetCard
	}
	g.t.build(seed, g.rules.TotalCards, content)
	g.dealInitial()
	return g
}

func (g *SetGame) dealInitial() {
	for i := 0; i < g.rules.InitialDeal; i++ {
		if !g.t.deal() {
			break
		}
	}
}

// Reset starts over with the same contents, reshuffled.
func (g *SetGame) Reset() {
	g.t.rebuild()
	g.phase = PhaseIdle
	g.selected = g.selected[:0]
	g.dealInitial()
}

// Choose applies a click on the card with the given id:
//
//  1. A pending match is cleared first (discarded, replaced in place) and
//     the click is then processed as a fresh selection.
//  2. A full mismatched selection is dismissed.
//  3. The card is toggled in or out of the selection.
//  4. Three selected cards are classified as a match or a mismatch.
//
// Unknown ids return ErrNotFound and matched cards ErrAlreadyMatched; in
// both cases nothing changes.
func (g *SetGame) Choose(id CardID) (Resolution, error) {
	chosen, ok := g.t.onTableau(id)
	if !ok {
		return ResolvedNone, ErrNotFound
	}
	if chosen.State == StateMatched {
		return ResolvedNone, ErrAlreadyMatched
	}

	if g.phase == PhasePendingClearance {
		g.clearPending()
	}

	if len(g.selected) == SetArity {
		g.dismissSelection()
	}

	if chosen.State == StateSelected {
		chosen.State = StateUnselected
		g.unselect(id)
		return ResolvedNone, nil
	}
	chosen.State = StateSelected
	g.selected = append(g.selected, id)

	if len(g.selected) < SetArity {
		return ResolvedNone, nil
	}
	return g.evaluate(), nil
}

// evaluate classifies the full selection.
func (g *SetGame) evaluate() Resolution {
	a := g.t.cards[g.selected[0]].Content
	b := g.t.cards[g.selected[1]].Content
	c := g.t.cards[g.selected[2]].Content
	if IsSet(a, b, c) {
		for _, id := range g.selected {
			g.t.cards[id].State = StateMatched
		}
		g.phase = PhasePendingClearance
		return ResolvedMatch
	}
	for _, id := range g.selected {
		g.t.cards[id].State = StateMismatched
	}
	return ResolvedMismatch
}

func (g *SetGame) unselect(id CardID) {
	for i, s := range g.selected {
		if s == id {
			g.selected = append(g.selected[:i], g.selected[i+1:]...)
			return
		}
	}
}

func (g *SetGame) dismissSelection() {
	for _, id := range g.selected {
		g.t.cards[id].State = StateUnselected
	}
	g.selected = g.selected[:0]
}

// clearPending discards the matched selection and refills in place.
func (g *SetGame) clearPending() {
	g.t.replace(g.selected)
	g.selected = g.selected[:0]
	g.phase = PhaseIdle
}

// DealMore clears a pending match if there is one; otherwise it appends
// DealSize cards, or returns ErrExhausted without dealing when the deck
// holds fewer than that.
func (g *SetGame) DealMore() error {
	if g.phase == PhasePendingClearance {
		g.clearPending()
		return nil
	}
	if g.t.deck.Remaining() < g.rules.DealSize {
		return ErrExhausted
	}
	for i := 0; i < g.rules.DealSize; i++ {
		g.t.deal()
	}
	return nil
}

// ShuffleTableau reorders the tableau without touching card state.
func (g *SetGame) ShuffleTableau() { g.t.shuffle() }

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Tableau returns a copy of the cards in display order.
func (g *SetGame) Tableau() []Card[SetCard] { return g.t.snapshot(g.t.tableau) }

// Discard returns a copy of the discard pile, oldest first.
func (g *SetGame) Discard() []Card[SetCard] { return g.t.snapshot(g.t.discard) }

// Card returns a copy of the card with the given id.
func (g *SetGame) Card(id CardID) (Card[SetCard], bool) { return g.t.lookup(id) }

// SelectedIDs returns the current selection in selection order.
func (g *SetGame) SelectedIDs() []CardID {
	return append([]CardID(nil), g.selected...)
}

// DeckCount returns the number of undealt cards.
func (g *SetGame) DeckCount() int { return g.t.deck.Remaining() }

// Phase returns the resolver phase.
func (g *SetGame) Phase() Phase { return g.phase }

// MatchedCount returns matched cards still on the tableau.
func (g *SetGame) MatchedCount() int { return g.t.countState(StateMatched) }

// SetsFound returns the number of confirmed sets, cleared or pending.
func (g *SetGame) SetsFound() int {
	n := len(g.t.discard) / SetArity
	if g.phase == PhasePendingClearance {
		n++
	}
	return n
}

// FindSet returns a set available on the tableau, ignoring a pending match.
func (g *SetGame) FindSet() ([SetArity]CardID, bool) { return findSet(&g.t) }

// IsOver reports whether the deck is empty and no set remains on the tableau.
func (g *SetGame) IsOver() bool {
	if g.t.deck.Remaining() > 0 {
		return false
	}
	_, ok := findSet(&g.t)
	return !ok
}
