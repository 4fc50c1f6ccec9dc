package session

import (
	"fmt"

	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/palette"
	"github.com/dshills/scriptmarks/internal/style"
	"github.com/dshills/scriptmarks/internal/wordcount"
)

// PillStyle is how a tag pill is drawn.
type PillStyle int

const (
	// PillFilled has the tag colour as background.
	PillFilled PillStyle = iota
	// PillOutline has a transparent background and a coloured border;
	// it marks tags declared with a beat or storyline label.
	PillOutline
)

// Pill is one tag button.
type Pill struct {
	Tag   string
	Style PillStyle
	// Background, Border and Text are "#rrggbb". Background is empty
	// for outline pills.
	Background string
	Border     string
	Text       string
	// Count is the number of occurrences, notepad ones included.
	Count int
	// K/N is the navigation counter; K is 0 before the first jump.
	K, N int
}

// Tooltip returns the "k/n" label of the pill.
func (p Pill) Tooltip() string {
	k := p.K
	if k == 0 && p.N > 0 {
		k = 1
	}
	return fmt.Sprintf("%d/%d", k, p.N)
}

// NoteItem is one row of the notes list.
type NoteItem struct {
	Key       string
	Kind      notes.Kind
	Content   string
	HTML      string
	Pos       int
	Dismissed bool
}

// CueItem is one row of the cue list.
type CueItem struct {
	Type   string
	Number string
	Name   string
	Scene  string
	Color  string
	Pos    int
	Hidden bool
}

// ViewModel is everything a panel needs to draw the session.
type ViewModel struct {
	ID   string
	Dark bool

	Favorites []Pill
	Others    []Pill

	Notes         []NoteItem
	HideDismissed bool

	Cues      []CueItem
	CueFilter string
	CueCounts []cues.TypeCount
	ShowScene bool

	Progress wordcount.Progress

	Linting    bool
	StyleCount map[style.Category]int
}

// Render builds the view model from the current state. It has no side
// effects.
func (s *Session) Render() ViewModel {
	vm := ViewModel{
		ID:            s.id.String(),
		Dark:          s.dark,
		HideDismissed: s.hideDismissed,
		CueFilter:     s.cueFilter,
		CueCounts:     cues.Counts(s.cueList),
		ShowScene:     s.cuePrefs.ShowSceneContext,
		Progress:      s.progress,
		Linting:       s.linting,
		StyleCount:    style.Counts(s.findings),
	}

	for _, tag := range s.favorites.List() {
		vm.Favorites = append(vm.Favorites, s.pill(tag))
	}
	for _, tag := range s.result.Index.Tags() {
		if !s.favorites.Contains(tag) {
			vm.Others = append(vm.Others, s.pill(tag))
		}
	}

	for _, e := range s.dismissed.Visible(s.entries, s.hideDismissed) {
		vm.Notes = append(vm.Notes, NoteItem{
			Key:       e.Key(),
			Kind:      e.Kind(),
			Content:   e.Content(),
			HTML:      e.HTML(),
			Pos:       e.Pos(),
			Dismissed: s.dismissed.Has(e.Key()),
		})
	}

	for _, c := range cues.Filter(s.cueList, s.cueFilter) {
		vm.Cues = append(vm.Cues, CueItem{
			Type:   c.Type,
			Number: c.Number,
			Name:   c.Name,
			Scene:  c.Scene,
			Color:  s.cuePrefs.Type(c.Type).Color,
			Pos:    c.Pos,
			Hidden: c.Hidden,
		})
	}
	return vm
}

func (s *Session) pill(tag string) Pill {
	color := s.prefs.Resolve(tag)
	k, n := s.nav.Position(s.result.Index, tag)
	p := Pill{
		Tag:    tag,
		Border: color.Hex(),
		Text:   color.Hex(),
		Count:  s.result.Index.Count(tag),
		K:      k,
		N:      n,
	}
	if s.result.Index.IsSpecial(tag) {
		p.Style = PillOutline
		return p
	}
	p.Style = PillFilled
	p.Background = color.Hex()
	p.Border = color.Darken(0.2).Hex()
	p.Text = palette.TextOn(color).Hex()
	return p
}
