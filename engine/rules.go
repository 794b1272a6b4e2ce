package engine

// Match arities.
const (
	MemoryArity = 2
	SetArity    = 3
)

// MinMemoryPairs is the smallest Memory game; fewer requested pairs are clamped up.
const MinMemoryPairs = 2

// MemoryRules holds configurable Memory scoring.
type MemoryRules struct {
	MatchBonus      int // points awarded for a matched pair
	MismatchPenalty int // points deducted per previously seen card in a mismatch
}

// DefaultMemoryRules returns the standard Memory scoring.
func DefaultMemoryRules() MemoryRules {
	return MemoryRules{
		MatchBonus:      2,
		MismatchPenalty: 1,
	}
}

// SetRules holds configurable Set dealing.
type SetRules struct {
	TotalCards  int // cards created at construction, 3..81
	InitialDeal int // cards dealt to the tableau at construction
	DealSize    int // cards appended by DealMore
}

// DefaultSetRules returns the standard Set rules: full deck, 12 dealt, 3 more per deal.
func DefaultSetRules() SetRules {
	return SetRules{
		TotalCards:  SetDeckSize,
		InitialDeal: 12,
		DealSize:    3,
	}
}

// normalized clamps the rules into a playable range: at least one match
// group, never more cards than distinct Set contents.
func (r SetRules) normalized() SetRules {
	if r.TotalCards < SetArity {
		r.TotalCards = SetArity
	}
	if r.TotalCards > SetDeckSize {
		r.TotalCards = SetDeckSize
	}
	if r.InitialDeal < SetArity {
		r.InitialDeal = SetArity
	}
	if r.InitialDeal > r.TotalCards {
		r.InitialDeal = r.TotalCards
	}
	if r.DealSize <= 0 {
		r.DealSize = SetArity
	}
	return r
}
