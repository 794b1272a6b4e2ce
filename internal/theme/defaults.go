// internal/theme/defaults.go
package theme

import "github.com/jason-s-yu/matchcards/internal/models"

// Named colours used by the built-in themes.
var (
	Orange = models.RGBA{Red: 1, Green: 0.584, Blue: 0, Alpha: 1}
	Green  = models.RGBA{Red: 0.204, Green: 0.780, Blue: 0.349, Alpha: 1}
	Gray   = models.RGBA{Red: 0.557, Green: 0.557, Blue: 0.576, Alpha: 1}
	Red    = models.RGBA{Red: 1, Green: 0.231, Blue: 0.188, Alpha: 1}
	Blue   = models.RGBA{Red: 0, Green: 0.478, Blue: 1, Alpha: 1}
	Yellow = models.RGBA{Red: 1, Green: 0.8, Blue: 0, Alpha: 1}
	Purple = models.RGBA{Red: 0.686, Green: 0.322, Blue: 0.871, Alpha: 1}
)

// DefaultThemes returns the built-in theme list used when nothing is stored.
func DefaultThemes() []models.Theme {
	return []models.Theme{
		{Name: "Food", Emojis: []string{"🍔", "🍕", "🍟", "🍣"}, NumberOfPairsOfCards: 4, Color: Orange},
		{Name: "Animals", Emojis: []string{"🐶", "🐱", "🐭", "🦊", "🦁"}, NumberOfPairsOfCards: 5, Color: Green},
		{Name: "Travel", Emojis: []string{"✈️", "🚆", "🚗", "🚢", "🚠", "🚀"}, NumberOfPairsOfCards: 6, Color: Gray},
		{Name: "Sports", Emojis: []string{"⚽️", "🏀", "🏈", "⚾️", "🎾", "🏐", "🏉"}, NumberOfPairsOfCards: 7, Color: Red},
		{Name: "Weather", Emojis: []string{"☀️", "⛅️", "🌧", "⛈", "❄️", "🌪", "🌤", "🌦"}, NumberOfPairsOfCards: 8, Color: Blue},
		{Name: "Faces", Emojis: []string{"😀", "😂", "🥲", "😎", "🥺", "😡", "🤩", "😍", "😇"}, NumberOfPairsOfCards: 9, Color: Yellow},
	}
}

// NewTheme returns the template a freshly added theme starts from.
func NewTheme() models.Theme {
	return models.Theme{
		Name:                 "New theme",
		Emojis:               []string{"👻", "🌙"},
		NumberOfPairsOfCards: 2,
		Color:                Purple,
	}
}

// missingContent is dealt when a theme asks for more pairs than it has emojis.
const missingContent = "error"

// ContentFactory returns the Memory content function for t: pair i shows
// t.Emojis[i].
func ContentFactory(t models.Theme) func(int) string {
	emojis := append([]string(nil), t.Emojis...)
	return func(i int) string {
		if i < 0 || i >= len(emojis) {
			return missingContent
		}
		return emojis[i]
	}
}
