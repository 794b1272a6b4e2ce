// internal/theme/chooser.go
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jason-s-yu/matchcards/internal/models"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrIndexOutOfRange is returned for a theme index outside the list.
	ErrIndexOutOfRange = errors.New("theme: index out of range")
	// ErrInvalidTheme wraps validation failures.
	ErrInvalidTheme = errors.New("theme: invalid")
	// ErrTooFewEmojis is returned when removing an emoji would leave fewer than two.
	ErrTooFewEmojis = errors.New("theme: a theme needs at least two emojis")
	// ErrEmojiNotFound is returned when removing an emoji the theme lacks.
	ErrEmojiNotFound = errors.New("theme: emoji not found")
)

// minEmojis is the smallest playable theme (one Memory game of two pairs).
const minEmojis = 2

// Chooser holds the ordered theme list and writes it back to its store
// after every mutation.
type Chooser struct {
	mu       sync.RWMutex
	store    BlobStore
	key      string
	themes   []models.Theme
	validate *validator.Validate
}

// NewChooser loads the theme list from store. A missing or undecodable
// blob falls back to DefaultThemes; any other store error is returned.
func NewChooser(ctx context.Context, store BlobStore) (*Chooser, error) {
	c := &Chooser{
		store:    store,
		key:      StorageKey,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	data, err := store.Get(ctx, c.key)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Printf("Themes: nothing stored under %q, using defaults.", c.key)
		c.themes = DefaultThemes()
	case err != nil:
		return nil, fmt.Errorf("load themes: %w", err)
	default:
		var decoded []models.Theme
		if err := json.Unmarshal(data, &decoded); err != nil {
			log.Warnf("Themes: stored list under %q is unreadable (%v), using defaults.", c.key, err)
			c.themes = DefaultThemes()
		} else {
			c.themes = decoded
		}
	}
	return c, nil
}

// Themes returns a copy of the list.
func (c *Chooser) Themes() []models.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Theme, len(c.themes))
	for i, t := range c.themes {
		out[i] = cloneTheme(t)
	}
	return out
}

// Theme returns a copy of the theme at index.
func (c *Chooser) Theme(index int) (models.Theme, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.themes) {
		return models.Theme{}, ErrIndexOutOfRange
	}
	return cloneTheme(c.themes[index]), nil
}

// Add appends t after normalising and validating it.
func (c *Chooser) Add(ctx context.Context, t models.Theme) (models.Theme, error) {
	t = Normalize(t)
	if err := c.check(t); err != nil {
		return models.Theme{}, err
	}
	err := c.mutate(ctx, func(themes []models.Theme) ([]models.Theme, error) {
		return append(themes, t), nil
	})
	return t, err
}

// Update replaces the theme at index.
func (c *Chooser) Update(ctx context.Context, index int, t models.Theme) (models.Theme, error) {
	t = Normalize(t)
	if err := c.check(t); err != nil {
		return models.Theme{}, err
	}
	err := c.mutate(ctx, func(themes []models.Theme) ([]models.Theme, error) {
		if index < 0 || index >= len(themes) {
			return nil, ErrIndexOutOfRange
		}
		themes[index] = t
		return themes, nil
	})
	return t, err
}

// Delete removes the theme at index.
func (c *Chooser) Delete(ctx context.Context, index int) error {
	return c.mutate(ctx, func(themes []models.Theme) ([]models.Theme, error) {
		if index < 0 || index >= len(themes) {
			return nil, ErrIndexOutOfRange
		}
		return append(themes[:index], themes[index+1:]...), nil
	})
}

// AddEmoji appends emoji to the theme at index unless it is already present.
func (c *Chooser) AddEmoji(ctx context.Context, index int, emoji string) (models.Theme, error) {
	return c.edit(ctx, index, func(t *models.Theme) error {
		if emoji == "" {
			return fmt.Errorf("%w: empty emoji", ErrInvalidTheme)
		}
		t.Emojis = append(t.Emojis, emoji)
		return nil
	})
}

// RemoveEmoji removes emoji from the theme at index, refusing to go below two.
func (c *Chooser) RemoveEmoji(ctx context.Context, index int, emoji string) (models.Theme, error) {
	return c.edit(ctx, index, func(t *models.Theme) error {
		i := slices.Index(t.Emojis, emoji)
		if i < 0 {
			return ErrEmojiNotFound
		}
		if len(t.Emojis) <= minEmojis {
			return ErrTooFewEmojis
		}
		t.Emojis = slices.Delete(t.Emojis, i, i+1)
		return nil
	})
}

// SetPairs sets the pair count of the theme at index, clamped to [2, emojis].
func (c *Chooser) SetPairs(ctx context.Context, index, pairs int) (models.Theme, error) {
	return c.edit(ctx, index, func(t *models.Theme) error {
		t.NumberOfPairsOfCards = pairs
		return nil
	})
}

// edit applies fn to a copy of the theme at index, then normalises,
// validates and stores it.
func (c *Chooser) edit(ctx context.Context, index int, fn func(*models.Theme) error) (models.Theme, error) {
	var edited models.Theme
	err := c.mutate(ctx, func(themes []models.Theme) ([]models.Theme, error) {
		if index < 0 || index >= len(themes) {
			return nil, ErrIndexOutOfRange
		}
		t := cloneTheme(themes[index])
		if err := fn(&t); err != nil {
			return nil, err
		}
		t = Normalize(t)
		if err := c.check(t); err != nil {
			return nil, err
		}
		themes[index] = t
		edited = t
		return themes, nil
	})
	return edited, err
}

// mutate runs fn on a copy of the list and, if it succeeds, saves the
// result and makes it current. The in-memory list is untouched when the
// save fails.
func (c *Chooser) mutate(ctx context.Context, fn func([]models.Theme) ([]models.Theme, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	working := make([]models.Theme, len(c.themes))
	for i, t := range c.themes {
		working[i] = cloneTheme(t)
	}
	next, err := fn(working)
	if err != nil {
		return err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode themes: %w", err)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("save themes: %w", err)
	}
	c.themes = next
	log.WithField("count", len(next)).Debug("Themes: saved.")
	return nil
}

func (c *Chooser) check(t models.Theme) error {
	if err := c.validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	return nil
}

// Normalize drops duplicate and empty emojis (keeping first occurrences)
// and clamps the pair count to [2, len(Emojis)].
func Normalize(t models.Theme) models.Theme {
	seen := make(map[string]bool, len(t.Emojis))
	emojis := make([]string, 0, len(t.Emojis))
	for _, e := range t.Emojis {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		emojis = append(emojis, e)
	}
	t.Emojis = emojis

	if t.NumberOfPairsOfCards > len(t.Emojis) {
		t.NumberOfPairsOfCards = len(t.Emojis)
	}
	if t.NumberOfPairsOfCards < minEmojis {
		t.NumberOfPairsOfCards = minEmojis
	}
	return t
}

func cloneTheme(t models.Theme) models.Theme {
	t.Emojis = append([]string(nil), t.Emojis...)
	return t
}
