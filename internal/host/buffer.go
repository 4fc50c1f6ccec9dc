package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dshills/scriptmarks/internal/fountain"
)

// ErrOutOfRange is returned when an edit addresses bytes outside the text.
var ErrOutOfRange = errors.New("range out of bounds")

// Change identifies what a Buffer change listener is told about.
type Change int

const (
	// TextChanged is sent after the screenplay text changes.
	TextChanged Change = iota
	// NotepadChanged is sent after the notepad changes.
	NotepadChanged
)

// Span is a highlighted document range.
type Span struct {
	Start  int
	Length int
}

// Notice is a recorded Notify call.
type Notice struct {
	Title   string
	Message string
}

// Buffer is a Host backed by in-memory strings.
//
// Buffer is safe for concurrent use. Change listeners run synchronously on
// the goroutine that made the change, after the buffer lock is released.
//
// Any text edit drops all highlights, since their offsets no longer line up;
// the owning session re-applies them on its next scan.
type Buffer struct {
	mu         sync.Mutex
	text       string
	notepad    string
	lines      []fountain.Line
	highlights map[Span]string
	scroll     int
	notices    []Notice
	listeners  []func(Change)
}

// NewBuffer creates a buffer holding text and notepad.
func NewBuffer(text, notepad string) *Buffer {
	return &Buffer{
		text:       text,
		notepad:    notepad,
		highlights: make(map[Span]string),
		scroll:     -1,
	}
}

// LoadBuffer reads the document at path and, if notepadPath is not empty,
// the notepad. A missing notepad file is treated as empty.
func LoadBuffer(path, notepadPath string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	var notepad []byte
	if notepadPath != "" {
		notepad, err = os.ReadFile(notepadPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading notepad %s: %w", notepadPath, err)
		}
	}

	return NewBuffer(string(data), string(notepad)), nil
}

// Save writes the document text to path through a temporary file.
func (b *Buffer) Save(path string) error {
	text := b.Text()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".scriptmarks-*")
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// OnChange registers a listener for text and notepad changes.
func (b *Buffer) OnChange(fn func(Change)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *Buffer) emit(c Change) {
	b.mu.Lock()
	listeners := append([]func(Change){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}

// Lines returns the classified lines of the current text.
func (b *Buffer) Lines() []fountain.Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lines == nil {
		b.lines = fountain.Parse(b.text)
	}
	out := make([]fountain.Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Text returns the full document text.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Notepad returns the notepad text.
func (b *Buffer) Notepad() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notepad
}

// SetText replaces the whole document and notifies listeners.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	changed := text != b.text
	if changed {
		b.setTextLocked(text)
	}
	b.mu.Unlock()

	if changed {
		b.emit(TextChanged)
	}
}

// SetNotepad replaces the notepad and notifies listeners.
func (b *Buffer) SetNotepad(text string) {
	b.mu.Lock()
	changed := text != b.notepad
	b.notepad = text
	b.mu.Unlock()

	if changed {
		b.emit(NotepadChanged)
	}
}

func (b *Buffer) setTextLocked(text string) {
	b.text = text
	b.lines = nil
	if len(b.highlights) > 0 {
		b.highlights = make(map[Span]string)
	}
}

// ReplaceRange replaces length bytes at start with text.
func (b *Buffer) ReplaceRange(start, length int, text string) error {
	b.mu.Lock()
	if start < 0 || length < 0 || start+length > len(b.text) {
		b.mu.Unlock()
		return fmt.Errorf("replace [%d,%d) in %d bytes: %w", start, start+length, len(b.text), ErrOutOfRange)
	}
	b.setTextLocked(b.text[:start] + text + b.text[start+length:])
	b.mu.Unlock()

	b.emit(TextChanged)
	return nil
}

// InsertString inserts text at pos.
func (b *Buffer) InsertString(pos int, text string) error {
	return b.ReplaceRange(pos, 0, text)
}

// SetHighlight records a background colour for the range.
func (b *Buffer) SetHighlight(color string, start, length int) {
	if length <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.highlights[Span{Start: start, Length: length}] = color
}

// ClearHighlight removes the background for the range.
func (b *Buffer) ClearHighlight(start, length int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.highlights, Span{Start: start, Length: length})
}

// Highlight returns the colour recorded for an exact range.
func (b *Buffer) Highlight(start, length int) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.highlights[Span{Start: start, Length: length}]
	return c, ok
}

// Highlights returns the highlighted spans sorted by start offset.
func (b *Buffer) Highlights() []Span {
	b.mu.Lock()
	defer b.mu.Unlock()

	spans := make([]Span, 0, len(b.highlights))
	for s := range b.highlights {
		spans = append(spans, s)
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].Length < spans[j].Length
	})
	return spans
}

// ScrollTo records the scroll target.
func (b *Buffer) ScrollTo(pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scroll = pos
}

// ScrollPosition returns the last scroll target, or -1 if never scrolled.
func (b *Buffer) ScrollPosition() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scroll
}

// Notify records a notice.
func (b *Buffer) Notify(title, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, Notice{Title: title, Message: message})
}

// Notices returns every notice recorded so far.
func (b *Buffer) Notices() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notice(nil), b.notices...)
}

var _ Host = (*Buffer)(nil)
