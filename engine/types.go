package engine

import "errors"

// CardID identifies a card for the lifetime of a game. IDs are dense,
// 0..N-1, assigned at construction and independent of tableau position.
type CardID int

// NoCard represents the absence of a card.
const NoCard CardID = -1

// CardState is the tagged per-card state.
type CardState uint8

const (
	StateUnselected CardState = iota // 0: face down (Memory) / not selected (Set)
	StateSelected                    // 1: face up (Memory) / selected (Set)
	StateMatched                     // 2
	StateMismatched                  // 3: part of a wrong guess, cleared on next interaction
)

// String returns the wire name of the state.
func (s CardState) String() string {
	switch s {
	case StateUnselected:
		return "unselected"
	case StateSelected:
		return "selected"
	case StateMatched:
		return "matched"
	case StateMismatched:
		return "mismatched"
	default:
		return "unknown"
	}
}

// Zone is where a card currently lives. A card is in exactly one zone.
type Zone uint8

const (
	ZoneDeck    Zone = iota // 0
	ZoneTableau             // 1
	ZoneDiscard             // 2
)

// String returns the wire name of the zone.
func (z Zone) String() string {
	switch z {
	case ZoneDeck:
		return "deck"
	case ZoneTableau:
		return "tableau"
	case ZoneDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// Card is one card of a game. Values returned from queries are copies.
type Card[C any] struct {
	ID      CardID
	Content C
	State   CardState
	Zone    Zone
	Seen    bool // Memory: turned back face down at least once after being revealed.

	pos int // tableau position, -1 when off the tableau
}

// FaceUp reports whether the card is showing its content as part of the
// current selection.
func (c Card[C]) FaceUp() bool {
	return c.State == StateSelected || c.State == StateMismatched
}

// Resolution classifies what a Choose call resolved.
type Resolution uint8

const (
	ResolvedNone     Resolution = iota // 0: selection changed, no group complete
	ResolvedMatch                      // 1
	ResolvedMismatch                   // 2
)

// String returns the wire name of the resolution.
func (r Resolution) String() string {
	switch r {
	case ResolvedMatch:
		return "match"
	case ResolvedMismatch:
		return "mismatch"
	default:
		return "none"
	}
}

// Phase is the engine-level state of the Set resolver.
type Phase uint8

const (
	PhaseIdle             Phase = iota // 0
	PhasePendingClearance              // 1: a match is confirmed and still on the tableau
)

var (
	// ErrNotFound is returned when a card id is not on the tableau.
	ErrNotFound = errors.New("card not on tableau")
	// ErrAlreadyMatched is returned when choosing a card that is already matched.
	ErrAlreadyMatched = errors.New("card already matched")
	// ErrExhausted is returned when the deck cannot cover a deal.
	ErrExhausted = errors.New("deck exhausted")
)

// ---------------------------------------------------------------------------
// SetCard: packed Set content
// ---------------------------------------------------------------------------

// Set attribute values. Each attribute takes one of three values.
const (
	ShapeCircle    uint8 = 0
	ShapeRectangle uint8 = 1
	ShapeDiamond   uint8 = 2

	ColorRed   uint8 = 0
	ColorGreen uint8 = 1
	ColorBlue  uint8 = 2

	ShadingOpaque      uint8 = 0
	ShadingTranslucent uint8 = 1
	ShadingTransparent uint8 = 2
)

// NumSetAttributes is the number of independent attributes on a Set card.
const NumSetAttributes = 4

// SetDeckSize is the number of distinct Set cards (3^4).
const SetDeckSize = 81

// SetCard is a packed uint8: 2 bits each for shape, color, shading and
// number-1, from low to high.
type SetCard uint8

// NewSetCard constructs a SetCard. number is 1–3.
func NewSetCard(shape, color, shading, number uint8) SetCard {
	return SetCard((shape & 0x03) | (color&0x03)<<2 | (shading&0x03)<<4 | ((number-1)&0x03)<<6)
}

// StandardSetCard maps an index in [0, 81) to its card, cycling shape
// fastest and number slowest.
func StandardSetCard(index int) SetCard {
	return NewSetCard(
		uint8(index%3),
		uint8((index/3)%3),
		uint8((index/9)%3),
		uint8(index/27%3)+1,
	)
}

// Shape returns the shape bits.
func (c SetCard) Shape() uint8 { return uint8(c) & 0x03 }

// Color returns the color bits.
func (c SetCard) Color() uint8 { return uint8(c) >> 2 & 0x03 }

// Shading returns the shading bits.
func (c SetCard) Shading() uint8 { return uint8(c) >> 4 & 0x03 }

// Number returns the symbol count, 1–3.
func (c SetCard) Number() uint8 { return uint8(c)>>6&0x03 + 1 }

// Attribute returns attribute i (0 shape, 1 color, 2 shading, 3 number-1).
func (c SetCard) Attribute(i int) uint8 {
	return uint8(c) >> (2 * uint(i)) & 0x03
}

// String returns a short human-readable form, e.g. "2 red opaque diamond".
func (c SetCard) String() string {
	return string('0'+rune(c.Number())) + " " + colorNames[c.Color()%3] + " " +
		shadingNames[c.Shading()%3] + " " + shapeNames[c.Shape()%3]
}

var (
	shapeNames   = [3]string{"circle", "rectangle", "diamond"}
	colorNames   = [3]string{"red", "green", "blue"}
	shadingNames = [3]string{"opaque", "translucent", "transparent"}
)

// ShapeName, ColorName and ShadingName return the wire names of attributes.
func (c SetCard) ShapeName() string   { return shapeNames[c.Shape()%3] }
func (c SetCard) ColorName() string   { return colorNames[c.Color()%3] }
func (c SetCard) ShadingName() string { return shadingNames[c.Shading()%3] }
