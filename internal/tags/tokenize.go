package tags

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	noteRe    = regexp.MustCompile(`\[\[(.*?)\]\]`)
	specialRe = regexp.MustCompile(`(?i)^\s*(beat|storyline)\b\s*:?\s+(.+)$`)
	hexRe     = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
)

// SpanKind distinguishes token kinds.
type SpanKind int

const (
	// Marker is a "#name" or "@name" token.
	Marker SpanKind = iota
	// Special is a "beat:" or "storyline:" label.
	Special
)

// Span is a token found inside a note. Offset and Len are byte offsets
// relative to the text handed to the tokenizer.
type Span struct {
	Kind   SpanKind
	Offset int
	Len    int
	Name   string
}

// Note is the content of one "[[...]]" note on a line.
type Note struct {
	// Offset is the byte offset of Content within the line.
	Offset  int
	Content string
}

// Notes returns the bracketed notes on a line. An unterminated "[[" yields
// nothing.
func Notes(line string) []Note {
	matches := noteRe.FindAllStringSubmatchIndex(line, -1)
	out := make([]Note, 0, len(matches))
	for _, m := range matches {
		out = append(out, Note{Offset: m[2], Content: line[m[2]:m[3]]})
	}
	return out
}

// Tokenize returns the tag spans of a note's content ordered by offset.
// A special label that covers exactly the same bytes as a marker token is
// dropped in favour of the marker.
func Tokenize(content string) []Span {
	spans := Markers(content)

	if sp, ok := specialLabel(content); ok {
		taken := false
		for _, m := range spans {
			if m.Offset == sp.Offset && m.Len == sp.Len {
				taken = true
				break
			}
		}
		if !taken {
			spans = append(spans, sp)
			sort.SliceStable(spans, func(i, j int) bool {
				return spans[i].Offset < spans[j].Offset
			})
		}
	}
	return spans
}

// Markers returns the marker tokens of text. A "#" token whose name is
// exactly six hex digits is a colour code and is skipped.
func Markers(text string) []Span {
	var out []Span
	for i := 0; i < len(text); {
		c := text[i]
		if c != '#' && c != '@' {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}

		end := i + 1
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isIdentRune(r) {
				break
			}
			end += size
		}
		if end == i+1 {
			i++
			continue
		}

		ident := text[i+1 : end]
		if c == '#' && hexRe.MatchString(ident) {
			i = end
			continue
		}
		out = append(out, Span{
			Kind:   Marker,
			Offset: i,
			Len:    end - i,
			Name:   Normalize(ident),
		})
		i = end
	}
	return out
}

func specialLabel(content string) (Span, bool) {
	m := specialRe.FindStringSubmatchIndex(content)
	if m == nil {
		return Span{}, false
	}
	start, end := m[4], m[5]
	rest := content[start:end]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	start += len(rest) - len(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return Span{}, false
	}
	return Span{
		Kind:   Special,
		Offset: start,
		Len:    len(trimmed),
		Name:   Normalize(trimmed),
	}, true
}

// Normalize lowercases and NFC-normalises a tag name.
func Normalize(name string) string {
	return norm.NFC.String(cases.Lower(language.Und).String(name))
}

// isIdentRune reports whether r may appear in a marker token name: letters,
// digits, combining marks and emoji including their joiners and modifiers.
func isIdentRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r):
		return true
	case unicode.Is(unicode.So, r):
		return true
	case r == 0x200D, r >= 0xFE00 && r <= 0xFE0F, r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	}
	return false
}
