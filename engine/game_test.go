package engine

import "testing"

// TestRNGSeedZero verifies that seed 0 is corrected to 1.
func TestRNGSeedZero(t *testing.T) {
	r := newRNG(0)
	if r.state != 1 {
		t.Errorf("state = %d, want 1 for seed=0", r.state)
	}
}

// TestDeckDealsAllOnce verifies every id comes out exactly once, then the deck is empty.
func TestDeckDealsAllOnce(t *testing.T) {
	r := newRNG(42)
	ids := make([]CardID, 20)
	for i := range ids {
		ids[i] = CardID(i)
	}
	d := newDeck(ids, &r)

	seen := make(map[CardID]bool)
	for want := 20; want > 0; want-- {
		if d.Remaining() != want {
			t.Fatalf("Remaining = %d, want %d", d.Remaining(), want)
		}
		id, ok := d.DealNext()
		if !ok {
			t.Fatalf("DealNext failed with %d remaining", want)
		}
		if seen[id] {
			t.Errorf("id %d dealt twice", id)
		}
		seen[id] = true
	}
	if id, ok := d.DealNext(); ok || id != NoCard {
		t.Errorf("DealNext on empty deck = (%d, %v), want (NoCard, false)", id, ok)
	}
	if d.Remaining() != 0 {
		t.Errorf("Remaining after exhaustion = %d, want 0", d.Remaining())
	}
}

// TestDeckPeekMatchesDealOrder verifies Peek lists cards next-first.
func TestDeckPeekMatchesDealOrder(t *testing.T) {
	r := newRNG(7)
	d := newDeck([]CardID{0, 1, 2, 3, 4}, &r)
	order := d.Peek()
	for i, want := range order {
		got, _ := d.DealNext()
		if got != want {
			t.Errorf("deal %d = %d, want %d", i, got, want)
		}
	}
}

// TestDeckShuffleDeterministic verifies the same seed yields the same order.
func TestDeckShuffleDeterministic(t *testing.T) {
	ids := []CardID{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	r1, r2 := newRNG(99), newRNG(99)
	d1, d2 := newDeck(ids, &r1), newDeck(ids, &r2)
	p1, p2 := d1.Peek(), d2.Peek()
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("order differs at %d: %d vs %d", i, p1[i], p2[i])
		}
	}
}

// TestTableReplaceInPlace verifies replaced positions receive the next deck cards.
func TestTableReplaceInPlace(t *testing.T) {
	var tb table[int]
	tb.build(3, 10, func(i int) int { return i })
	for i := 0; i < 5; i++ {
		tb.deal()
	}
	next := tb.deck.Peek()[:2]
	a, b := tb.tableau[1], tb.tableau[3]

	tb.replace([]CardID{a, b})

	if tb.tableau[1] != next[0] || tb.tableau[3] != next[1] {
		t.Errorf("tableau = %v, want positions 1,3 = %v", tb.tableau, next)
	}
	if len(tb.discard) != 2 || tb.discard[0] != a || tb.discard[1] != b {
		t.Errorf("discard = %v, want [%d %d]", tb.discard, a, b)
	}
	if tb.cards[a].Zone != ZoneDiscard || tb.cards[a].pos != -1 {
		t.Errorf("replaced card zone=%v pos=%d, want discard/-1", tb.cards[a].Zone, tb.cards[a].pos)
	}
	assertZonesDisjoint(t, &tb)
}

// TestTableReplaceClosesGaps verifies positions the deck cannot fill are removed.
func TestTableReplaceClosesGaps(t *testing.T) {
	var tb table[int]
	tb.build(5, 6, func(i int) int { return i })
	for i := 0; i < 5; i++ {
		tb.deal()
	}
	before := append([]CardID(nil), tb.tableau...)
	last := tb.deck.Peek()[0]

	tb.replace([]CardID{before[0], before[2], before[4]})

	want := []CardID{last, before[1], before[3]}
	if len(tb.tableau) != len(want) {
		t.Fatalf("tableau len = %d, want %d", len(tb.tableau), len(want))
	}
	for i := range want {
		if tb.tableau[i] != want[i] {
			t.Errorf("tableau[%d] = %d, want %d", i, tb.tableau[i], want[i])
		}
		if tb.cards[tb.tableau[i]].pos != i {
			t.Errorf("card %d pos = %d, want %d", tb.tableau[i], tb.cards[tb.tableau[i]].pos, i)
		}
	}
	assertZonesDisjoint(t, &tb)
}

// TestTableShufflePreservesCards verifies shuffle only changes order.
func TestTableShufflePreservesCards(t *testing.T) {
	var tb table[int]
	tb.build(11, 12, func(i int) int { return i * 10 })
	for tb.deal() {
	}
	tb.cards[tb.tableau[0]].State = StateMatched
	tb.cards[tb.tableau[1]].Seen = true
	before := make(map[CardID]Card[int])
	for _, c := range tb.snapshot(tb.tableau) {
		before[c.ID] = c
	}

	tb.shuffle()

	if len(tb.tableau) != len(before) {
		t.Fatalf("tableau len = %d, want %d", len(tb.tableau), len(before))
	}
	for i, id := range tb.tableau {
		c := tb.cards[id]
		b := before[id]
		if c.State != b.State || c.Content != b.Content || c.Seen != b.Seen {
			t.Errorf("card %d changed: %+v -> %+v", id, b, c)
		}
		if c.pos != i {
			t.Errorf("card %d pos = %d, want %d", id, c.pos, i)
		}
	}
}

// assertZonesDisjoint checks every card is listed in exactly the zone it claims.
func assertZonesDisjoint[C any](t *testing.T, tb *table[C]) {
	t.Helper()
	count := make(map[CardID]int)
	for _, id := range tb.deck.ids {
		count[id]++
		if tb.cards[id].Zone != ZoneDeck {
			t.Errorf("card %d in deck has zone %v", id, tb.cards[id].Zone)
		}
	}
	for _, id := range tb.tableau {
		count[id]++
		if tb.cards[id].Zone != ZoneTableau {
			t.Errorf("card %d on tableau has zone %v", id, tb.cards[id].Zone)
		}
	}
	for _, id := range tb.discard {
		count[id]++
		if tb.cards[id].Zone != ZoneDiscard {
			t.Errorf("card %d in discard has zone %v", id, tb.cards[id].Zone)
		}
	}
	if len(count) != len(tb.cards) {
		t.Errorf("%d cards accounted for, want %d", len(count), len(tb.cards))
	}
	for id, n := range count {
		if n != 1 {
			t.Errorf("card %d listed %d times", id, n)
		}
	}
}
