// internal/models/theme.go
package models

// RGBA is a colour with components in [0, 1].
type RGBA struct {
	Red   float64 `json:"red" validate:"gte=0,lte=1"`
	Green float64 `json:"green" validate:"gte=0,lte=1"`
	Blue  float64 `json:"blue" validate:"gte=0,lte=1"`
	Alpha float64 `json:"alpha" validate:"gte=0,lte=1"`
}

// Theme describes one Memory deck: the emoji used as card content and how
// many of them are dealt as pairs.
type Theme struct {
	Name                 string   `json:"name" validate:"required,max=64"`
	Emojis               []string `json:"emojis" validate:"min=2,dive,required"`
	NumberOfPairsOfCards int      `json:"numberOfPairsOfCards" validate:"gte=2"`
	Color                RGBA     `json:"color"`
}
