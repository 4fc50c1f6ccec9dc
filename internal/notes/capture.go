package notes

import "strings"

// AppendIdea returns notepad with idea appended as its own paragraph.
// Blank ideas leave the notepad unchanged.
func AppendIdea(notepad, idea string) string {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return notepad
	}
	if notepad != "" && !strings.HasSuffix(notepad, "\n\n") {
		notepad = strings.TrimRight(notepad, "\n") + "\n\n"
	}
	return notepad + idea + "\n\n"
}
