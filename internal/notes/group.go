package notes

import (
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
)

// GroupDelimiter toggles a notepad group.
const GroupDelimiter = "---"

// GroupNotepad splits notepad text into entries. Lines between a pair of
// "---" lines form one entry; elsewhere consecutive non-blank lines form an
// entry that ends at a blank line. A group left open runs to the end.
func GroupNotepad(text string) []NotepadEntry {
	var (
		out     []NotepadEntry
		cur     []string
		inGroup bool
	)
	flush := func() {
		if s := joinTrimmed(cur); s != "" {
			out = append(out, NotepadEntry{Text: s})
		}
		cur = cur[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == GroupDelimiter {
			flush()
			inGroup = !inGroup
			continue
		}
		if !inGroup && trimmed == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

type groupMode int

const (
	modeNone groupMode = iota
	modeParagraph
	modeSection
	modeHeading
)

// GroupBoneyard groups the lines of the BONEYARD region.
//
// A section header ("#...") opens a group that absorbs every following line,
// scene headings included, until the next section header. Outside a section
// a scene heading opens a group that runs until the next heading or section
// header. Remaining lines group into blank-line separated paragraphs.
func GroupBoneyard(lines []fountain.Line, firstLine int) []BoneyardEntry {
	var (
		out    []BoneyardEntry
		cur    []int
		mode   = modeNone
		header string
	)
	flush := func() {
		start, end := 0, len(cur)
		for start < end && isBlank(lines[cur[start]].Text) {
			start++
		}
		for end > start && isBlank(lines[cur[end-1]].Text) {
			end--
		}
		if start < end {
			texts := make([]string, 0, end-start)
			for _, i := range cur[start:end] {
				texts = append(texts, lines[i].Text)
			}
			first := cur[start]
			out = append(out, BoneyardEntry{
				Text:   strings.Join(texts, "\n"),
				Start:  lines[first].Start,
				Line:   firstLine + first,
				Header: header,
			})
		}
		cur = cur[:0]
		mode = modeNone
		header = ""
	}

	for i, l := range lines {
		trimmed := strings.TrimSpace(l.Text)
		switch {
		case fountain.SectionDepth(trimmed) > 0:
			flush()
			mode, header = modeSection, trimmed
			cur = append(cur, i)
		case mode != modeSection && fountain.IsSceneHeading(trimmed):
			flush()
			mode, header = modeHeading, trimmed
			cur = append(cur, i)
		case mode == modeSection || mode == modeHeading:
			cur = append(cur, i)
		case trimmed == "":
			flush()
		default:
			mode = modeParagraph
			cur = append(cur, i)
		}
	}
	flush()
	return out
}

func joinTrimmed(lines []string) string {
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
