package cues

import (
	"strconv"
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
)

// Renumber numbers the cues selected by filter 1, 2, 3... in document order
// and rewrites each line as "TYPE (cue N): description". The "!" prefix and
// any "[[ ]]" wrapper are kept. Edits are returned last-first.
func Renumber(lines []fountain.Line, cues []Cue, filter string) []host.Edit {
	selected := Filter(cues, filter)
	edits := make([]host.Edit, 0, len(selected))
	for i := len(selected) - 1; i >= 0; i-- {
		c := selected[i]
		if c.Line < 0 || c.Line >= len(lines) {
			continue
		}
		l := lines[c.Line]
		m, ok := parse(strings.TrimSpace(l.Text))
		if !ok {
			continue
		}
		text := m.force + m.typ + " (cue " + strconv.Itoa(i+1) + "): " + m.desc
		if m.hidden {
			text = "[[" + text + "]]"
		}
		edits = append(edits, host.Edit{Start: l.Start, Length: len(l.Text), Text: text})
	}
	return edits
}

// SetHidden wraps the cues of type typ in "[[ ]]" when hide is set and
// unwraps them otherwise. Cues already in the requested state are left
// alone. Edits are returned last-first.
func SetHidden(lines []fountain.Line, cues []Cue, typ string, hide bool) []host.Edit {
	var edits []host.Edit
	for i := len(cues) - 1; i >= 0; i-- {
		c := cues[i]
		if c.Type != typ || c.Hidden == hide || c.Line < 0 || c.Line >= len(lines) {
			continue
		}
		l := lines[c.Line]
		trimmed := strings.TrimSpace(l.Text)
		var text string
		if hide {
			text = "[[" + trimmed + "]]"
		} else {
			text = strings.TrimSpace(trimmed[2 : len(trimmed)-2])
		}
		edits = append(edits, host.Edit{Start: l.Start, Length: len(l.Text), Text: text})
	}
	return edits
}

// SyncHidden brings every cue in line with the hide preference of its type.
func SyncHidden(lines []fountain.Line, cues []Cue, prefs *Preferences) []host.Edit {
	var edits []host.Edit
	for i := len(cues) - 1; i >= 0; i-- {
		c := cues[i]
		want := prefs.Type(c.Type).Hide
		if c.Hidden == want {
			continue
		}
		edits = append(edits, SetHidden(lines, []Cue{c}, c.Type, want)...)
	}
	return edits
}
