// Package engine implements the card-matching rules shared by the Memory
// game (pairs) and the Set game (triples).
//
// Both games keep every card in an id-indexed arena and track which zone
// (deck, tableau, discard) it lives in, so lookups and in-place
// replacement are O(1) regardless of tableau order. The package has no
// goroutines and no I/O; a host that shares a game across goroutines must
// serialize access itself.
package engine

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

type rng struct{ state uint64 }

func newRNG(seed uint64) rng {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	return rng{state: seed}
}

func (r *rng) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// intn returns a random number in [0, n). The modulo bias is negligible
// for n no larger than a deck.
func (r *rng) intn(n uint64) uint64 {
	return r.next() % n
}

// ---------------------------------------------------------------------------
// table: arena, zones and tableau order shared by both games
// ---------------------------------------------------------------------------

type table[C any] struct {
	cards   []Card[C] // indexed by CardID
	deck    Deck
	tableau []CardID // display order
	discard []CardID
	rng     rng
}

// build creates n cards with content(i), shuffles them into the deck.
func (t *table[C]) build(seed uint64, n int, content func(int) C) {
	t.rng = newRNG(seed)
	t.cards = make([]Card[C], n)
	ids := make([]CardID, n)
	for i := 0; i < n; i++ {
		t.cards[i] = Card[C]{ID: CardID(i), Content: content(i), Zone: ZoneDeck, pos: -1}
		ids[i] = CardID(i)
	}
	t.deck = newDeck(ids, &t.rng)
	t.tableau = t.tableau[:0]
	t.discard = t.discard[:0]
}

// rebuild reuses the existing contents, resetting every card to the deck.
func (t *table[C]) rebuild() {
	ids := make([]CardID, len(t.cards))
	for i := range t.cards {
		c := &t.cards[i]
		c.State, c.Zone, c.Seen, c.pos = StateUnselected, ZoneDeck, false, -1
		ids[i] = c.ID
	}
	t.deck.Reset(ids, &t.rng)
	t.tableau = t.tableau[:0]
	t.discard = t.discard[:0]
}

// deal moves the top deck card to the end of the tableau.
func (t *table[C]) deal() bool {
	id, ok := t.deck.DealNext()
	if !ok {
		return false
	}
	t.place(id, len(t.tableau))
	t.tableau = append(t.tableau, id)
	return true
}

func (t *table[C]) place(id CardID, pos int) {
	c := &t.cards[id]
	c.Zone = ZoneTableau
	c.State = StateUnselected
	c.pos = pos
}

// onTableau returns the card if id is currently on the tableau.
func (t *table[C]) onTableau(id CardID) (*Card[C], bool) {
	if id < 0 || int(id) >= len(t.cards) {
		return nil, false
	}
	c := &t.cards[id]
	if c.Zone != ZoneTableau {
		return nil, false
	}
	return c, true
}

// replace discards each id and puts the next deck card into its tableau
// position. Positions the deck cannot fill are removed and the tableau
// closes up, keeping the relative order of the remaining cards.
func (t *table[C]) replace(ids []CardID) {
	gaps := false
	for _, id := range ids {
		c := &t.cards[id]
		if c.Zone != ZoneTableau {
			continue
		}
		pos := c.pos
		c.Zone = ZoneDiscard
		c.pos = -1
		t.discard = append(t.discard, id)

		if next, ok := t.deck.DealNext(); ok {
			t.place(next, pos)
			t.tableau[pos] = next
		} else {
			t.tableau[pos] = NoCard
			gaps = true
		}
	}
	if gaps {
		kept := t.tableau[:0]
		for _, id := range t.tableau {
			if id != NoCard {
				kept = append(kept, id)
			}
		}
		t.tableau = kept
		t.reindex()
	}
}

// shuffle permutes tableau display order only.
func (t *table[C]) shuffle() {
	for i := len(t.tableau) - 1; i > 0; i-- {
		j := int(t.rng.intn(uint64(i + 1)))
		t.tableau[i], t.tableau[j] = t.tableau[j], t.tableau[i]
	}
	t.reindex()
}

func (t *table[C]) reindex() {
	for i, id := range t.tableau {
		t.cards[id].pos = i
	}
}

// ---------------------------------------------------------------------------
// Query helpers
// ---------------------------------------------------------------------------

func (t *table[C]) snapshot(ids []CardID) []Card[C] {
	out := make([]Card[C], len(ids))
	for i, id := range ids {
		out[i] = t.cards[id]
	}
	return out
}

func (t *table[C]) lookup(id CardID) (Card[C], bool) {
	if id < 0 || int(id) >= len(t.cards) {
		return Card[C]{}, false
	}
	return t.cards[id], true
}

func (t *table[C]) countState(s CardState) int {
	n := 0
	for _, id := range t.tableau {
		if t.cards[id].State == s {
			n++
		}
	}
	return n
}
