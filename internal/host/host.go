// Package host defines the editor services scriptmarks consumes and provides
// Buffer, an in-process implementation used by the CLI and by tests.
//
// Every call on these interfaces is treated as fire-and-forget from the
// caller's side: highlight, scroll and notify never report failure, and the
// editing calls return an error only for invalid ranges.
package host

import "github.com/dshills/scriptmarks/internal/fountain"

// Document gives read access to the screenplay and the notepad.
type Document interface {
	// Lines returns the classified lines of the current text.
	Lines() []fountain.Line

	// Text returns the full document text.
	Text() string

	// Notepad returns the auxiliary free-text buffer.
	Notepad() string
}

// Editor mutates the document.
type Editor interface {
	// ReplaceRange replaces length bytes starting at start with text.
	ReplaceRange(start, length int, text string) error

	// InsertString inserts text at pos.
	InsertString(pos int, text string) error
}

// Highlighter applies background colours to document ranges.
type Highlighter interface {
	// SetHighlight sets the background of [start, start+length) to color.
	SetHighlight(color string, start, length int)

	// ClearHighlight removes any background from [start, start+length).
	ClearHighlight(start, length int)
}

// Viewport moves the editor view.
type Viewport interface {
	// ScrollTo scrolls the editor so that pos is visible.
	ScrollTo(pos int)
}

// Notifier surfaces user-facing messages.
type Notifier interface {
	// Notify shows a modal or transient message to the user.
	Notify(title, message string)
}

// Host bundles every service a session needs.
type Host interface {
	Document
	Editor
	Highlighter
	Viewport
	Notifier
}

// Edit is a pending replacement computed by a tool before it is applied.
type Edit struct {
	Start  int
	Length int
	Text   string
}

// ApplyEdits applies edits in order. Callers produce edits in descending
// offset order so that earlier edits do not shift later ones.
func ApplyEdits(ed Editor, edits []Edit) error {
	for _, e := range edits {
		var err error
		if e.Length == 0 {
			err = ed.InsertString(e.Start, e.Text)
		} else {
			err = ed.ReplaceRange(e.Start, e.Length, e.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
