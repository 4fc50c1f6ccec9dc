// Package cues finds technical cues (SOUND, LIGHT, MUSIC...) written into a
// screenplay, keeps them numbered, hides them inside notes on request and
// exports them for playback software.
//
// A cue is a line of the form
//
//	SOUND (cue 12): Door slams
//
// optionally prefixed by "!" (forced action) and optionally wrapped in
// "[[ ]]", which hides it from the printed script.
package cues

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
)

// All selects every cue type in Filter, Renumber and the exports.
const All = "ALL"

// NoNumber is the number of a cue that has not been numbered yet.
const NoNumber = "N/A"

// UnknownScene is the scene of cues that appear before the first heading.
const UnknownScene = "Unknown"

var (
	cueRe     = regexp.MustCompile(`^(!?)([A-Z][A-Z0-9]*)\s*(?:\((?:cue\s+)?(\d+)\))?\s*:\s*(.*)$`)
	noteCueRe = regexp.MustCompile(`^\[\[\s*(!?)([A-Z][A-Z0-9]*)\s*(?:\((?:cue\s+)?(\d+)\))?\s*:\s*(.*)\s*\]\]$`)
	leadRe    = regexp.MustCompile(`^[\[!A-Z.]`)
)

// Cue is one detected cue line.
type Cue struct {
	Type   string
	Number string
	Name   string
	// Line is the index of the cue's line.
	Line int
	// Pos is the byte offset of the start of the line.
	Pos   int
	Scene string
	// Hidden is set for cues wrapped in "[[ ]]".
	Hidden bool
}

type match struct {
	force  string
	typ    string
	number string
	desc   string
	hidden bool
}

func parse(trimmed string) (match, bool) {
	if m := cueRe.FindStringSubmatch(trimmed); m != nil {
		return match{force: m[1], typ: m[2], number: m[3], desc: m[4]}, true
	}
	if m := noteCueRe.FindStringSubmatch(trimmed); m != nil {
		return match{force: m[1], typ: m[2], number: m[3], desc: m[4], hidden: true}, true
	}
	return match{}, false
}

// sceneHeading reports whether trimmed starts a scene and returns the scene
// name to attach to the cues that follow.
func sceneHeading(l fountain.Line, trimmed string) (string, bool) {
	if l.Type == fountain.Heading {
		return strings.TrimPrefix(trimmed, "."), true
	}
	upper := strings.ToUpper(trimmed)
	for _, p := range []string{"INT.", "EXT.", "INT/EXT", "EXT/INT", "I/E"} {
		if strings.HasPrefix(upper, p) {
			return trimmed, true
		}
	}
	if len(trimmed) > 1 && trimmed[0] == '.' && trimmed[1] != '.' {
		return strings.TrimSpace(trimmed[1:]), true
	}
	return "", false
}

// Detect returns the cues in lines and the cue types in first-seen order.
func Detect(lines []fountain.Line) ([]Cue, []string) {
	var (
		out   []Cue
		types []string
		seen  = make(map[string]bool)
		scene = UnknownScene
	)
	for i, l := range lines {
		trimmed := strings.TrimSpace(l.Text)
		if trimmed == "" || !leadRe.MatchString(trimmed) {
			continue
		}
		if s, ok := sceneHeading(l, trimmed); ok {
			scene = s
			continue
		}
		m, ok := parse(trimmed)
		if !ok {
			continue
		}
		if !seen[m.typ] {
			seen[m.typ] = true
			types = append(types, m.typ)
		}
		number := m.number
		if number == "" {
			number = NoNumber
		}
		out = append(out, Cue{
			Type:   m.typ,
			Number: number,
			Name:   strings.TrimSpace(m.desc),
			Line:   i,
			Pos:    l.Start,
			Scene:  scene,
			Hidden: m.hidden,
		})
	}
	return out, types
}

// Filter returns the cues of type typ, or every cue for All.
func Filter(cues []Cue, typ string) []Cue {
	if typ == All || typ == "" {
		return cues
	}
	var out []Cue
	for _, c := range cues {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

// Search keeps the cues whose type, name or number contains query, ignoring
// case.
func Search(cues []Cue, query string) []Cue {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cues
	}
	var out []Cue
	for _, c := range cues {
		if strings.Contains(strings.ToLower(c.Type), query) ||
			strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(c.Number, query) {
			out = append(out, c)
		}
	}
	return out
}

// TypeCount is the number of cues of one type.
type TypeCount struct {
	Type  string
	Count int
}

// Counts tallies cues per type, sorted by type name.
func Counts(cues []Cue) []TypeCount {
	m := make(map[string]int)
	for _, c := range cues {
		m[c.Type]++
	}
	out := make([]TypeCount, 0, len(m))
	for t, n := range m {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
