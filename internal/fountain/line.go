package fountain

import (
	"strings"
	"unicode"
)

// Type identifies the Fountain element a line belongs to.
type Type int

// Line types.
const (
	Empty Type = iota
	Action
	Heading
	Character
	DualCharacter
	Dialogue
	Parenthetical
	Transition
	Centered
	Section
	Synopsis
	PageBreak
)

var typeNames = map[Type]string{
	Empty:         "empty",
	Action:        "action",
	Heading:       "heading",
	Character:     "character",
	DualCharacter: "dualDialogueCharacter",
	Dialogue:      "dialogue",
	Parenthetical: "parenthetical",
	Transition:    "transition",
	Centered:      "centered",
	Section:       "section",
	Synopsis:      "synopsis",
	PageBreak:     "pageBreak",
}

// String returns the element name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Line is one line of a document.
type Line struct {
	// Text is the line content without its line terminator.
	Text string
	// Start is the byte offset of the first character in the document.
	Start int
	// Type is the classified element type.
	Type Type
}

// End returns the byte offset just past the line's text.
func (l Line) End() int {
	return l.Start + len(l.Text)
}

// IsAnyCharacter reports whether the line is a character cue, single or dual.
func (l Line) IsAnyCharacter() bool {
	return l.Type == Character || l.Type == DualCharacter
}

// IsDialogueBlock reports whether the line is part of a dialogue block.
func (l Line) IsDialogueBlock() bool {
	switch l.Type {
	case Character, DualCharacter, Dialogue, Parenthetical:
		return true
	}
	return false
}

// Split breaks text into lines, recording each line's start offset.
// A trailing "\r" is dropped from the line text but still counted in the
// offsets of following lines.
func Split(text string) []Line {
	lines := make([]Line, 0, strings.Count(text, "\n")+1)
	start := 0
	for {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			lines = append(lines, Line{Text: strings.TrimSuffix(text[start:], "\r"), Start: start})
			return lines
		}
		lines = append(lines, Line{Text: strings.TrimSuffix(text[start:start+idx], "\r"), Start: start})
		start += idx + 1
	}
}

// Parse splits and classifies text.
func Parse(text string) []Line {
	lines := Split(text)
	Classify(lines)
	return lines
}

// Classify assigns a Type to every line in place. Classification depends on
// the neighbouring lines, so it must see the whole slice.
func Classify(lines []Line) {
	for i := range lines {
		lines[i].Type = classify(lines, i)
	}
}

func classify(lines []Line, i int) Type {
	trimmed := strings.TrimSpace(lines[i].Text)
	if trimmed == "" {
		return Empty
	}

	switch {
	case strings.HasPrefix(trimmed, "==="):
		return PageBreak
	case strings.HasPrefix(trimmed, "="):
		return Synopsis
	case strings.HasPrefix(trimmed, "#"):
		return Section
	case strings.HasPrefix(trimmed, "!"):
		return Action
	case IsSceneHeading(trimmed):
		return Heading
	case strings.HasPrefix(trimmed, ">") && strings.HasSuffix(trimmed, "<"):
		return Centered
	case strings.HasPrefix(trimmed, ">"), isTransition(trimmed):
		return Transition
	}

	prevEmpty := i == 0 || strings.TrimSpace(lines[i-1].Text) == ""
	nextFilled := i+1 < len(lines) && strings.TrimSpace(lines[i+1].Text) != ""
	if prevEmpty && nextFilled && isCharacterCue(trimmed) {
		if strings.HasSuffix(trimmed, "^") {
			return DualCharacter
		}
		return Character
	}

	if i > 0 && !prevEmpty {
		switch lines[i-1].Type {
		case Character, DualCharacter, Dialogue, Parenthetical:
			if strings.HasPrefix(trimmed, "(") {
				return Parenthetical
			}
			return Dialogue
		}
	}

	return Action
}

// headingPrefixes are the scene-heading openers recognised without forcing.
var headingPrefixes = []string{
	"INT./EXT.", "INT/EXT", "EXT./INT.", "EXT/INT", "I/E",
	"INT.", "EXT.", "EST.", "INT ", "EXT ",
}

// IsSceneHeading reports whether a trimmed line is a scene heading. A single
// leading '.' forces a heading; ".." does not.
func IsSceneHeading(trimmed string) bool {
	if strings.HasPrefix(trimmed, ".") {
		return len(trimmed) > 1 && trimmed[1] != '.'
	}
	upper := strings.ToUpper(trimmed)
	for _, p := range headingPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// SectionDepth returns the number of leading '#' characters of a trimmed
// line, or 0 when the line is not a section header.
func SectionDepth(trimmed string) int {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	return n
}

func isTransition(trimmed string) bool {
	return strings.HasSuffix(trimmed, "TO:") && isUpper(trimmed)
}

func isCharacterCue(trimmed string) bool {
	if strings.HasPrefix(trimmed, "@") {
		return len(trimmed) > 1
	}
	name := CharacterName(trimmed)
	return name != "" && isUpper(name)
}

// isUpper reports whether s has at least one letter and no lowercase letters.
func isUpper(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters
}

// CharacterName strips forcing marks, the dual-dialogue caret and any
// parenthetical extensions such as (V.O.) or (CONT'D) from a character cue.
func CharacterName(cue string) string {
	name := strings.TrimSpace(cue)
	name = strings.TrimPrefix(name, "@")
	name = strings.TrimSpace(strings.TrimSuffix(name, "^"))
	if idx := strings.IndexByte(name, '('); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// IsBoneyardHeading reports whether a trimmed line is the "# BONEYARD"
// section that opens the archive region at the end of a script.
func IsBoneyardHeading(trimmed string) bool {
	depth := SectionDepth(trimmed)
	if depth == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(trimmed[depth:]), "boneyard")
}

// BoneyardIndex returns the index of the BONEYARD heading line, or -1.
func BoneyardIndex(lines []Line) int {
	for i, l := range lines {
		if IsBoneyardHeading(strings.TrimSpace(l.Text)) {
			return i
		}
	}
	return -1
}
