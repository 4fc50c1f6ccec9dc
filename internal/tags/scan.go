package tags

import (
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
)

// ColorFunc resolves the display colour of a tag as "#rrggbb".
type ColorFunc func(tag string) string

// Scanner builds an Index from document lines and the notepad.
type Scanner struct {
	color ColorFunc
	hl    host.Highlighter
}

// NewScanner returns a scanner that colours occurrences with color and
// paints document occurrences through hl. A nil hl disables painting.
func NewScanner(color ColorFunc, hl host.Highlighter) *Scanner {
	return &Scanner{color: color, hl: hl}
}

// Scan is a convenience for NewScanner(color, hl).Scan(lines, notepad).
func Scan(lines []fountain.Line, notepad string, color ColorFunc, hl host.Highlighter) *Result {
	return NewScanner(color, hl).Scan(lines, notepad)
}

// Scan rebuilds the index. Document occurrences come first in line order,
// then notepad occurrences in notepad order.
func (s *Scanner) Scan(lines []fountain.Line, notepad string) *Result {
	res := Empty()

	for i, line := range lines {
		if !strings.Contains(line.Text, "[[") {
			continue
		}
		for _, note := range Notes(line.Text) {
			base := line.Start + note.Offset
			for _, sp := range Tokenize(note.Content) {
				o := &Occurrence{
					Tag:     sp.Name,
					Line:    i,
					Pos:     base + sp.Offset,
					Len:     sp.Len,
					Special: sp.Kind == Special,
				}
				s.accept(res, o)
				if s.hl != nil {
					s.hl.SetHighlight(o.Color, o.Pos, o.Len)
				}
			}
		}
	}

	for _, sp := range Markers(notepad) {
		s.accept(res, &Occurrence{
			Tag:  sp.Name,
			Line: External,
			Pos:  External,
			Len:  sp.Len,
		})
	}

	return res
}

func (s *Scanner) accept(res *Result, o *Occurrence) {
	if s.color != nil {
		o.Color = s.color(o.Tag)
	}
	res.Index.add(o)
	res.All = append(res.All, o)
}
