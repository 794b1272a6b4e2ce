package engine

// Deck is the face-down stock. The top of the deck (next dealt) is the last
// element of ids.
type Deck struct {
	ids []CardID
}

// newDeck loads ids and shuffles them once.
func newDeck(ids []CardID, r *rng) Deck {
	var d Deck
	d.Reset(ids, r)
	return d
}

// Reset replaces the deck content with ids and shuffles it.
func (d *Deck) Reset(ids []CardID, r *rng) {
	d.ids = append(d.ids[:0], ids...)
	// Fisher-Yates shuffle.
	for i := len(d.ids) - 1; i > 0; i-- {
		j := int(r.intn(uint64(i + 1)))
		d.ids[i], d.ids[j] = d.ids[j], d.ids[i]
	}
}

// DealNext removes and returns the top card. ok is false when the deck is empty.
func (d *Deck) DealNext() (id CardID, ok bool) {
	if len(d.ids) == 0 {
		return NoCard, false
	}
	id = d.ids[len(d.ids)-1]
	d.ids = d.ids[:len(d.ids)-1]
	return id, true
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int { return len(d.ids) }

// Peek returns the deal order, next card first, without changing the deck.
func (d *Deck) Peek() []CardID {
	out := make([]CardID, len(d.ids))
	for i := range d.ids {
		out[i] = d.ids[len(d.ids)-1-i]
	}
	return out
}
