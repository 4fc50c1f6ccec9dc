package notes

import (
	"strings"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/tags"
)

// Collect returns every entry of the document and the notepad. Document
// entries come first in document order, then BONEYARD groups, then notepad
// groups. Lines inside the BONEYARD region are only grouped, never scanned
// for notes or synopses.
func Collect(lines []fountain.Line, notepad string) []Entry {
	body := lines
	boneyard := fountain.BoneyardIndex(lines)
	if boneyard >= 0 {
		body = lines[:boneyard]
	}

	out := scanDocument(body)
	if boneyard >= 0 {
		for _, e := range GroupBoneyard(lines[boneyard+1:], boneyard+1) {
			out = append(out, e)
		}
	}
	for _, e := range GroupNotepad(notepad) {
		out = append(out, e)
	}
	return out
}

func scanDocument(lines []fountain.Line) []Entry {
	var (
		out       []Entry
		omitted   []string
		omitStart = -1
		omitLine  int
	)

	for i, l := range lines {
		text := l.Text

		if omitStart >= 0 {
			end := strings.Index(text, "*/")
			if end < 0 {
				omitted = append(omitted, text)
				continue
			}
			omitted = append(omitted, text[:end])
			if s := joinTrimmed(omitted); s != "" {
				out = append(out, OmittedEntry{Text: strings.TrimSpace(s), Start: omitStart, Line: omitLine})
			}
			omitted, omitStart = nil, -1
			text = text[end+2:]
		}

		if l.Type == fountain.Synopsis {
			s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "="))
			if s != "" {
				out = append(out, SynopsisEntry{Text: s, Start: l.Start, Line: i})
			}
			continue
		}

		offset := len(l.Text) - len(text)
		for _, n := range tags.Notes(text) {
			if c := strings.TrimSpace(n.Content); c != "" {
				out = append(out, NoteEntry{Text: c, Start: l.Start + offset + n.Offset - 2, Line: i})
			}
		}

		// Omitted blocks may open and close several times on one line.
		for {
			open := strings.Index(text, "/*")
			if open < 0 {
				break
			}
			rest := text[open+2:]
			start := l.Start + offset + open
			if end := strings.Index(rest, "*/"); end >= 0 {
				if s := strings.TrimSpace(rest[:end]); s != "" {
					out = append(out, OmittedEntry{Text: s, Start: start, Line: i})
				}
				consumed := open + 2 + end + 2
				offset += consumed
				text = text[consumed:]
				continue
			}
			omitted = []string{rest}
			omitStart, omitLine = start, i
			break
		}
	}

	if omitStart >= 0 {
		if s := joinTrimmed(omitted); s != "" {
			out = append(out, OmittedEntry{Text: strings.TrimSpace(s), Start: omitStart, Line: omitLine})
		}
	}
	return out
}
