// Package contd maintains the (CONT'D) extension on character cues that
// continue the same speaker's dialogue.
package contd

import (
	"fmt"
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
)

// Default is the extension text used when none is configured.
const Default = "CONT'D"

const marker = "(CONT'D)"

// Mode selects how Clean treats extensions already in the script.
type Mode int

const (
	// Strict rebuilds every extension from scratch and strips them from
	// dual dialogue.
	Strict Mode = iota
	// Loose keeps extensions the writer added and only normalises them.
	Loose
)

func (m Mode) String() string {
	if m == Loose {
		return "loose"
	}
	return "strict"
}

// ParseMode accepts "strict", "loose" and "non-strict".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return Strict, nil
	case "loose", "non-strict", "nonstrict":
		return Loose, nil
	}
	return Strict, fmt.Errorf("unknown CONT'D mode %q", s)
}

// Add appends " (ext)" to every character cue that repeats the previous
// speaker, unless a scene heading came between them or the cue already
// carries the extension. An empty ext means Default. Edits are returned
// last-first.
func Add(lines []fountain.Line, ext string) []host.Edit {
	if ext == "" {
		ext = Default
	}
	ext = "(" + ext + ")"

	var (
		edits    []host.Edit
		previous string
	)
	for _, l := range lines {
		if l.Type == fountain.Heading {
			previous = ""
		}
		if !l.IsAnyCharacter() {
			continue
		}
		name := fountain.CharacterName(l.Text)
		if name == "" {
			continue
		}
		if name != previous {
			previous = name
			continue
		}
		if strings.Contains(l.Text, ext) || strings.Contains(l.Text, marker) {
			continue
		}
		insert := ext
		if !strings.HasSuffix(l.Text, " ") {
			insert = " " + insert
		}
		edits = append(edits, host.Edit{Start: l.End(), Text: insert})
	}
	reverse(edits)
	return edits
}

type cueLine struct {
	line    fountain.Line
	changed bool
	text    string
	hasExt  bool
	name    string
	dual    bool
}

// hasMarker reports whether s ends with (CONT'D), ignoring case, and
// returns s without it.
func hasMarker(s string) (string, bool) {
	if len(s) >= len(marker) && strings.EqualFold(s[len(s)-len(marker):], marker) {
		return strings.TrimSpace(s[:len(s)-len(marker)]), true
	}
	return s, false
}

// Clean tidies every (CONT'D) in the script. In Strict mode a cue gets the
// extension exactly when it repeats the previous speaker within a scene, and
// dual dialogue never keeps one. In Loose mode existing extensions are kept
// and normalised. The left side of a dual dialogue pair never keeps an added
// extension. Edits are returned last-first.
func Clean(lines []fountain.Line, mode Mode) []host.Edit {
	strict := mode == Strict

	var (
		cues     []cueLine
		previous string
		seen     bool
	)
	for _, l := range lines {
		switch l.Type {
		case fountain.Heading:
			seen = false
		case fountain.Character:
			trimmed := strings.TrimSpace(l.Text)
			name, has := hasMarker(trimmed)
			name = strings.TrimSpace(name)
			c := cueLine{line: l, hasExt: has, name: name}
			if (seen && previous == name) || (!strict && has) {
				c.text, c.changed = name+" "+marker, true
			}
			if strict && has && !(seen && previous == name) {
				c.text, c.changed = name, true
			}
			previous, seen = name, true
			cues = append(cues, c)
		case fountain.DualCharacter:
			trimmed := strings.TrimSpace(l.Text)
			body := strings.TrimSpace(strings.TrimSuffix(trimmed, "^"))
			name, has := hasMarker(body)
			c := cueLine{line: l, hasExt: has, name: strings.TrimSpace(name), dual: true}
			if has {
				if strict {
					c.text = c.name + "^"
				} else {
					c.text = c.name + " " + marker + "^"
				}
				c.changed = true
			}
			seen = false
			cues = append(cues, c)
		}
	}

	for i := range cues {
		if i+1 < len(cues) && cues[i+1].dual && cues[i].changed {
			if strict || !cues[i].hasExt {
				cues[i].text = cues[i].name
			} else {
				cues[i].text = cues[i].name + " " + marker
			}
		}
	}

	var edits []host.Edit
	for _, c := range cues {
		if !c.changed || c.text == c.line.Text {
			continue
		}
		edits = append(edits, host.Edit{Start: c.line.Start, Length: len(c.line.Text), Text: c.text})
	}
	reverse(edits)
	return edits
}

func reverse(edits []host.Edit) {
	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
}
