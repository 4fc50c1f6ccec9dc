package session

import (
	"fmt"

	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/palette"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/tags"
)

// Navigate jumps to the next document occurrence of tag.
func (s *Session) Navigate(tag string) tags.Outcome {
	if s.closed {
		return tags.OutcomeNone
	}
	occ, outcome := s.nav.Next(s.result.Index, tags.Normalize(tag))
	if occ != nil {
		s.logger.Debug("navigate %s -> %d", occ.Tag, occ.Pos)
	}
	return outcome
}

// Position reports the k/n counter of tag for the UI.
func (s *Session) Position(tag string) (k, n int) {
	return s.nav.Position(s.result.Index, tags.Normalize(tag))
}

func parseColor(hex string) (palette.Color, error) {
	c, err := palette.ParseHex(hex)
	if err != nil {
		return palette.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return c, nil
}

// PreviewColor shows tag in hex without saving the choice.
func (s *Session) PreviewColor(tag, hex string) error {
	if s.closed {
		return ErrClosed
	}
	c, err := parseColor(hex)
	if err != nil {
		return err
	}
	s.prefs.Set(tags.Normalize(tag), c)
	s.recon.ReapplyAll(s.result.Targets())
	return nil
}

// SetColor makes hex the saved colour of tag and repaints.
func (s *Session) SetColor(tag, hex string) error {
	if s.closed {
		return ErrClosed
	}
	c, err := parseColor(hex)
	if err != nil {
		return err
	}
	s.prefs.Set(tags.Normalize(tag), c)
	if err := s.defaults.Set(store.KeyTagColors, s.prefs.Encode()); err != nil {
		return fmt.Errorf("saving tag colors: %w", err)
	}
	s.recon.ReapplyAll(s.result.Targets())
	return nil
}

// AddFavorite moves tag to the favorites row. Only indexed tags can be
// favorites.
func (s *Session) AddFavorite(tag string) bool {
	tag = tags.Normalize(tag)
	if s.closed || !s.result.Index.Has(tag) || !s.favorites.Add(tag) {
		return false
	}
	s.persist(s.settings, store.KeyFavoriteTags, s.favorites.List())
	return true
}

// RemoveFavorite moves tag back to the other tags.
func (s *Session) RemoveFavorite(tag string) bool {
	if s.closed || !s.favorites.Remove(tags.Normalize(tag)) {
		return false
	}
	s.persist(s.settings, store.KeyFavoriteTags, s.favorites.List())
	return true
}

// Favorites returns the favorite tags in order.
func (s *Session) Favorites() []string {
	return s.favorites.List()
}

// Dark reports whether the dark theme is active.
func (s *Session) Dark() bool {
	return s.dark
}

// ToggleTheme switches between the dark and light theme. Highlights are
// recomputed against the new text colour.
func (s *Session) ToggleTheme() {
	if s.closed {
		return
	}
	s.dark = !s.dark
	s.persist(s.defaults, store.KeyThemePreference, s.dark)
	s.recon.SetForeground(s.cfg.Foreground(s.dark))
	s.recon.ReapplyAll(s.result.Targets())
}

// ToggleDismissed flips the dismissed state of the entry with key and
// returns the new state.
func (s *Session) ToggleDismissed(key string) bool {
	if s.closed || key == "" {
		return false
	}
	on := s.dismissed.Toggle(key)
	s.persist(s.settings, store.KeyDismissedEntries, s.dismissed.Keys())
	return on
}

// SetHideDismissed hides or shows dismissed entries in Render.
func (s *Session) SetHideDismissed(hide bool) {
	s.hideDismissed = hide
}

// GoToEntry scrolls to the entry with key. Notepad entries have no
// position and are ignored.
func (s *Session) GoToEntry(key string) bool {
	if s.closed {
		return false
	}
	for _, e := range s.entries {
		if e.Key() == key && e.Pos() != notes.NoPosition {
			s.host.ScrollTo(e.Pos())
			return true
		}
	}
	return false
}

// Capture appends idea to the notepad and rescans.
func (s *Session) Capture(idea string) error {
	if s.closed {
		return ErrClosed
	}
	w, ok := s.host.(NotepadWriter)
	if !ok {
		return ErrNotepadReadOnly
	}
	w.SetNotepad(notes.AppendIdea(s.host.Notepad(), idea))
	s.Refresh()
	return nil
}
