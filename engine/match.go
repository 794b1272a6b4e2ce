package engine

// IsSet reports whether three cards form a set: for every attribute the
// three values are all the same or all different.
func IsSet(a, b, c SetCard) bool {
	for i := 0; i < NumSetAttributes; i++ {
		x, y, z := a.Attribute(i), b.Attribute(i), c.Attribute(i)
		allSame := x == y && y == z
		allDiff := x != y && y != z && x != z
		if !allSame && !allDiff {
			return false
		}
	}
	return true
}

// thirdOf returns the unique card completing a set with a and b.
func thirdOf(a, b SetCard) SetCard {
	var out uint8
	for i := 0; i < NumSetAttributes; i++ {
		x, y := a.Attribute(i), b.Attribute(i)
		v := x
		if x != y {
			v = 3 - x - y
		}
		out |= (v & 0x03) << (2 * uint(i))
	}
	return SetCard(out)
}

// findSet returns the first set among cards in tableau order, skipping
// matched cards.
func findSet(t *table[SetCard]) ([SetArity]CardID, bool) {
	byContent := make(map[SetCard]CardID, len(t.tableau))
	var live []CardID
	for _, id := range t.tableau {
		c := t.cards[id]
		if c.State == StateMatched {
			continue
		}
		byContent[c.Content] = id
		live = append(live, id)
	}
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			a, b := t.cards[live[i]].Content, t.cards[live[j]].Content
			if k, ok := byContent[thirdOf(a, b)]; ok && k != live[i] && k != live[j] {
				return [SetArity]CardID{live[i], live[j], k}, true
			}
		}
	}
	return [SetArity]CardID{NoCard, NoCard, NoCard}, false
}
