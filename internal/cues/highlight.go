package cues

import (
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
)

// Highlight colours the type name of every cue whose type has highlighting
// on. It returns the highlighted spans so they can be cleared later.
func Highlight(hl host.Highlighter, lines []fountain.Line, cues []Cue, prefs *Preferences) []host.Span {
	var spans []host.Span
	for _, c := range cues {
		tp := prefs.Type(c.Type)
		if !tp.Highlight || tp.Color == "" || c.Line < 0 || c.Line >= len(lines) {
			continue
		}
		l := lines[c.Line]
		off := strings.Index(l.Text, c.Type)
		if off < 0 {
			continue
		}
		sp := host.Span{Start: l.Start + off, Length: len(c.Type)}
		hl.SetHighlight(tp.Color, sp.Start, sp.Length)
		spans = append(spans, sp)
	}
	return spans
}

// ClearHighlights removes spans returned by Highlight.
func ClearHighlights(hl host.Highlighter, spans []host.Span) {
	for _, sp := range spans {
		hl.ClearHighlight(sp.Start, sp.Length)
	}
}
