package tags

import (
	"time"

	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/loop"
)

// Outcome describes what a navigation request did.
type Outcome int

const (
	// OutcomeNone means the tag is unknown.
	OutcomeNone Outcome = iota
	// OutcomeJumped means the view moved to a document occurrence.
	OutcomeJumped
	// OutcomeNotepadOnly means the tag only appears in the notepad.
	OutcomeNotepadOnly
)

func (o Outcome) String() string {
	switch o {
	case OutcomeJumped:
		return "jumped"
	case OutcomeNotepadOnly:
		return "notepad-only"
	default:
		return "none"
	}
}

// Flash settings used by DefaultNavigatorOptions.
const (
	DefaultFlashCycles   = 3
	DefaultFlashInterval = 250 * time.Millisecond
)

// NotepadOnlyTitle and NotepadOnlyMessage are the notice shown when a tag
// has no document occurrence to jump to.
const (
	NotepadOnlyTitle   = "Notepad Only"
	NotepadOnlyMessage = "This tag only appears in the notepad."
)

// NavigatorOptions configures the flash played on the selected occurrence.
type NavigatorOptions struct {
	FlashCycles   int
	FlashInterval time.Duration
}

// DefaultNavigatorOptions returns three on/off cycles at 250ms per phase.
func DefaultNavigatorOptions() NavigatorOptions {
	return NavigatorOptions{
		FlashCycles:   DefaultFlashCycles,
		FlashInterval: DefaultFlashInterval,
	}
}

// Navigator moves the editor to successive occurrences of a tag.
type Navigator struct {
	cursor *Cursor
	host   navHost
	sched  loop.Scheduler
	opts   NavigatorOptions

	// pending flash phases, keyed so fired timers can drop themselves
	pending map[int]loop.Timer
	nextID  int
}

type navHost interface {
	host.Highlighter
	host.Viewport
	host.Notifier
}

// NewNavigator creates a navigator. The cursor is shared with the caller so
// it survives index rebuilds.
func NewNavigator(cursor *Cursor, h navHost, sched loop.Scheduler, opts NavigatorOptions) *Navigator {
	return &Navigator{
		cursor:  cursor,
		host:    h,
		sched:   sched,
		opts:    opts,
		pending: make(map[int]loop.Timer),
	}
}

// Cursor returns the navigator's cursor.
func (n *Navigator) Cursor() *Cursor {
	return n.cursor
}

// Next selects the next document occurrence of tag in round-robin order,
// scrolls to it and flashes it. Unknown tags are ignored.
func (n *Navigator) Next(ix *Index, tag string) (*Occurrence, Outcome) {
	if !ix.Has(tag) {
		return nil, OutcomeNone
	}

	doc := ix.InDocument(tag)
	if len(doc) == 0 {
		n.host.Notify(NotepadOnlyTitle, NotepadOnlyMessage)
		return nil, OutcomeNotepadOnly
	}

	occ := doc[n.cursor.advance(tag)%len(doc)]
	n.host.ScrollTo(occ.Pos)
	n.flash(occ.Color, occ.Pos, occ.Len, n.opts.FlashCycles)
	return occ, OutcomeJumped
}

// Position reports the 1-based position k of the occurrence the last jump
// selected and the number n of document occurrences. k is 0 before the
// first jump.
func (n *Navigator) Position(ix *Index, tag string) (k, total int) {
	total = len(ix.InDocument(tag))
	if total == 0 {
		return 0, 0
	}
	jumps := n.cursor.Get(tag)
	if jumps == 0 {
		return 0, total
	}
	return (jumps-1)%total + 1, total
}

// Stop cancels every flash still in progress. Ranges already painted are
// left alone; the caller clears or repaints them.
func (n *Navigator) Stop() {
	for id, t := range n.pending {
		t.Stop()
		delete(n.pending, id)
	}
}

// Flashing returns the number of flash phases still scheduled.
func (n *Navigator) Flashing() int {
	return len(n.pending)
}

// flash alternates the highlight on and off, leaving it on at the end.
func (n *Navigator) flash(color string, start, length, cycles int) {
	if cycles <= 0 {
		return
	}
	n.host.SetHighlight(color, start, length)
	if cycles == 1 {
		return
	}
	n.after(func() {
		n.host.ClearHighlight(start, length)
		n.after(func() {
			n.flash(color, start, length, cycles-1)
		})
	})
}

func (n *Navigator) after(fn func()) {
	id := n.nextID
	n.nextID++
	n.pending[id] = n.sched.After(n.opts.FlashInterval, func() {
		delete(n.pending, id)
		fn()
	})
}
