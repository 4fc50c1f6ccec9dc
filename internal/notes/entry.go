// Package notes collects the free-text entries shown in the notes list:
// inline notes, synopses, omitted blocks, BONEYARD groups and notepad
// groups. Each entry carries a stable key so that the user can tick it off.
package notes

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/net/html"
)

// Kind names an entry variant. It is also the prefix of document keys.
type Kind string

// Entry kinds.
const (
	KindNote     Kind = "note"
	KindSynopsis Kind = "synopsis"
	KindOmitted  Kind = "omitted"
	KindBoneyard Kind = "boneyard"
	KindNotepad  Kind = "notepad"
)

// NoPosition is the Pos of entries that do not come from the document.
const NoPosition = -1

// Entry is one item of the notes list. The variants are NoteEntry,
// SynopsisEntry, OmittedEntry, BoneyardEntry and NotepadEntry.
type Entry interface {
	Kind() Kind
	// Content is the text with its delimiters stripped.
	Content() string
	// HTML is Content escaped for HTML display.
	HTML() string
	// Pos is the document offset to navigate to, or NoPosition.
	Pos() int
	// Key identifies the entry across refreshes.
	Key() string

	isEntry()
}

// NoteEntry is an inline "[[...]]" note.
type NoteEntry struct {
	Text  string
	Start int
	Line  int
}

// SynopsisEntry is a "= ..." synopsis line.
type SynopsisEntry struct {
	Text  string
	Start int
	Line  int
}

// OmittedEntry is a "/* ... */" block, possibly spanning lines.
type OmittedEntry struct {
	Text  string
	Start int
	Line  int
}

// BoneyardEntry is a group of lines inside the BONEYARD region.
type BoneyardEntry struct {
	Text  string
	Start int
	Line  int
	// Header is the section or scene heading that opened the group, empty
	// for a plain paragraph.
	Header string
}

// NotepadEntry is a group of notepad lines.
type NotepadEntry struct {
	Text string
}

func (NoteEntry) Kind() Kind     { return KindNote }
func (SynopsisEntry) Kind() Kind { return KindSynopsis }
func (OmittedEntry) Kind() Kind  { return KindOmitted }
func (BoneyardEntry) Kind() Kind { return KindBoneyard }
func (NotepadEntry) Kind() Kind  { return KindNotepad }

func (e NoteEntry) Content() string     { return e.Text }
func (e SynopsisEntry) Content() string { return e.Text }
func (e OmittedEntry) Content() string  { return e.Text }
func (e BoneyardEntry) Content() string { return e.Text }
func (e NotepadEntry) Content() string  { return e.Text }

func (e NoteEntry) HTML() string     { return escape(e.Text) }
func (e SynopsisEntry) HTML() string { return escape(e.Text) }
func (e OmittedEntry) HTML() string  { return escape(e.Text) }
func (e BoneyardEntry) HTML() string { return escape(e.Text) }
func (e NotepadEntry) HTML() string  { return escape(e.Text) }

func (e NoteEntry) Pos() int     { return e.Start }
func (e SynopsisEntry) Pos() int { return e.Start }
func (e OmittedEntry) Pos() int  { return e.Start }
func (e BoneyardEntry) Pos() int { return e.Start }
func (NotepadEntry) Pos() int    { return NoPosition }

func (e NoteEntry) Key() string     { return docKey(KindNote, e.Start) }
func (e SynopsisEntry) Key() string { return docKey(KindSynopsis, e.Start) }
func (e OmittedEntry) Key() string  { return docKey(KindOmitted, e.Start) }
func (e BoneyardEntry) Key() string { return docKey(KindBoneyard, e.Start) }
func (e NotepadEntry) Key() string  { return NotepadKey(e.Text) }

func (NoteEntry) isEntry()     {}
func (SynopsisEntry) isEntry() {}
func (OmittedEntry) isEntry()  {}
func (BoneyardEntry) isEntry() {}
func (NotepadEntry) isEntry()  {}

func docKey(k Kind, pos int) string {
	return fmt.Sprintf("%s:%d", k, pos)
}

// NotepadKey derives the key of a notepad entry from its content, so that
// reordering the notepad does not lose the dismissed state. Case and
// whitespace differences do not change the key.
func NotepadKey(content string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(content), " "))
	return fmt.Sprintf("%s:%016x", KindNotepad, xxhash.Sum64String(norm))
}

// escape escapes s for HTML and keeps line breaks visible.
func escape(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
