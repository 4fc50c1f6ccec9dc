// Package style flags prose that often deserves a second look: adverbs,
// adjectives, repeated nominalisations, weak verbs, passive voice,
// conjunctions, fillers, redundancies and clichés.
//
// Only action and dialogue lines are checked. Synopses, omitted blocks and
// the inside of inline notes are skipped. A finding is a prompt, not an
// error.
package style

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/tags"
)

// Category is a lint category.
type Category int

// Categories in display order.
const (
	Adverbs Category = iota
	Adjectives
	Nouns
	Verbs
	Passive
	Conjunctions
	Fillers
	Redundancies
	Cliches
)

type categoryInfo struct {
	name    string
	color   string
	pattern *regexp.Regexp
}

var categories = []categoryInfo{
	Adverbs:    {"adverbs", "#b84f50", regexp.MustCompile(`(?i)\b\w+ly\b`)},
	Adjectives: {"adjectives", "#837a40", regexp.MustCompile(`(?i)\b\w+(?:ous|ful|able|ible|ic|ive|al)\b`)},
	Nouns:      {"nouns", "#96601d", regexp.MustCompile(`(?i)\b\w+(?:tion|ment|ness|ity|age|ance|ence)\b`)},
	Verbs: {"verbs", "#44785c", regexp.MustCompile(
		`(?i)\b(?:is|are|was|were|be|been|being|have|has|had|do|does|did|seem|seems|seemed|appear|appears|appeared)\b`)},
	Passive:      {"passive", "#4a838f", regexp.MustCompile(`(?i)\b(?:is|are|was|were|be|been|being)\b\s+\b\w+(?:ed|en|n|t|wn|ne)\b`)},
	Conjunctions: {"conjunctions", "#78674c", regexp.MustCompile(`(?i)\b(?:and|but|or|nor|for|yet|so)\b`)},
	Fillers: {"fillers", "#7b54a4", regexp.MustCompile(`(?i)\b(?:um|uh|er|ah|hmm|oh|okay|alright|anyway|actually|literally|` +
		`I guess|I mean|sort of|kind of|kinda|basically|pretty much|essentially|just|really|honestly|seriously|` +
		`clearly|obviously|definitely|totally|completely)\b`)},
	Redundancies: {"redundancies", "#a3668d", regexp.MustCompile(`(?i)\b(?:true fact|free gift|advance warning|final outcome|` +
		`unexpected surprise|completely unanimous|past history|added bonus|basic fundamentals|basic necessities|` +
		`exact duplicate|exact replica|reason why|close scrutiny|final conclusion|over exaggerate|past memories|` +
		`past experience|false pretense|circle around|collaborate together|continue on|current trend|each and every|` +
		`empty space|estimated roughly|first began|foreign imports|frozen ice|full capacity|future prospects|` +
		`general public|general consensus)\b`)},
	Cliches: {"cliches", "#527099", regexp.MustCompile(`(?i)\b(?:at the end of the day|think outside the box|` +
		`only time will tell|in the nick of time|better late than never|as luck would have it|it is what it is|` +
		`back to square one|beat around the bush|easier said than done|every cloud has a silver lining|` +
		`go the extra mile|hit the nail on the head|last but not least|let bygones be bygones|` +
		`the writing on the wall|tip of the iceberg|water under the bridge|when push comes to shove|you live and learn)\b`)},
}

// String returns the category name used in configuration.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categories) {
		return "unknown"
	}
	return categories[c].name
}

// Color returns the highlight colour of the category.
func (c Category) Color() string {
	if c < 0 || int(c) >= len(categories) {
		return "#ff0000"
	}
	return categories[c].color
}

// ParseCategory looks a category up by name. "passiveVoice" is accepted
// as an alias of "passive".
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "passivevoice" {
		return Passive, true
	}
	for i, info := range categories {
		if info.name == name {
			return Category(i), true
		}
	}
	return 0, false
}

// All returns every category.
func All() []Category {
	out := make([]Category, len(categories))
	for i := range categories {
		out[i] = Category(i)
	}
	return out
}

// ParseCategories converts names, skipping unknown ones.
func ParseCategories(names []string) []Category {
	var out []Category
	for _, n := range names {
		if c, ok := ParseCategory(n); ok {
			out = append(out, c)
		}
	}
	return out
}

// Finding is one flagged word or phrase.
type Finding struct {
	Category Category
	Line     int
	// Pos is the absolute byte offset of Word in the document.
	Pos  int
	Len  int
	Word string
}

// Lint checks lines for the enabled categories. Findings are ordered by
// position, then by category.
func Lint(lines []fountain.Line, enabled []Category) []Finding {
	on := make(map[Category]bool, len(enabled))
	for _, c := range enabled {
		on[c] = true
	}

	var (
		out     []Finding
		nouns   []Finding
		omitted bool
	)
	for i, l := range lines {
		skip := omitted
		omitted = updateOmitted(l.Text, omitted)
		if skip || strings.HasPrefix(strings.TrimSpace(l.Text), "/*") {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(l.Text), "=") {
			continue
		}
		if l.Type != fountain.Action && l.Type != fountain.Dialogue {
			continue
		}

		notes := tags.Notes(l.Text)
		for ci, info := range categories {
			c := Category(ci)
			if !on[c] {
				continue
			}
			for _, m := range info.pattern.FindAllStringIndex(l.Text, -1) {
				if insideNote(notes, m[0]) {
					continue
				}
				f := Finding{Category: c, Line: i, Pos: l.Start + m[0], Len: m[1] - m[0], Word: l.Text[m[0]:m[1]]}
				if c == Nouns {
					nouns = append(nouns, f)
				} else {
					out = append(out, f)
				}
			}
		}
	}

	out = append(out, repeated(nouns)...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pos != out[j].Pos {
			return out[i].Pos < out[j].Pos
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// repeated keeps the nouns that occur more than once, ignoring case.
func repeated(nouns []Finding) []Finding {
	freq := make(map[string]int, len(nouns))
	for _, f := range nouns {
		freq[strings.ToLower(f.Word)]++
	}
	var out []Finding
	for _, f := range nouns {
		if freq[strings.ToLower(f.Word)] > 1 {
			out = append(out, f)
		}
	}
	return out
}

// insideNote reports whether a line offset falls within a "[[...]]" note,
// brackets included.
func insideNote(notes []tags.Note, off int) bool {
	for _, n := range notes {
		if off >= n.Offset-2 && off < n.Offset+len(n.Content)+2 {
			return true
		}
	}
	return false
}

// updateOmitted returns whether an omitted block is still open after text.
func updateOmitted(text string, open bool) bool {
	for {
		if open {
			i := strings.Index(text, "*/")
			if i < 0 {
				return true
			}
			text, open = text[i+2:], false
			continue
		}
		i := strings.Index(text, "/*")
		if i < 0 {
			return false
		}
		text, open = text[i+2:], true
	}
}

// Apply highlights findings in their category colours.
func Apply(hl host.Highlighter, findings []Finding) {
	for _, f := range findings {
		hl.SetHighlight(f.Category.Color(), f.Pos, f.Len)
	}
}

// Clear removes the highlights of findings.
func Clear(hl host.Highlighter, findings []Finding) {
	for _, f := range findings {
		hl.ClearHighlight(f.Pos, f.Len)
	}
}

// Counts tallies findings per category.
func Counts(findings []Finding) map[Category]int {
	out := make(map[Category]int)
	for _, f := range findings {
		out[f.Category]++
	}
	return out
}
