// Package panel draws a session in the terminal and maps keys and mouse
// clicks to session actions.
//
// The panel reads its view model from the session and never touches the
// document itself. Every method except Run and Notify must be called on
// the loop goroutine; Run forwards screen events there.
package panel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/session"
	"github.com/dshills/scriptmarks/internal/style"
	"github.com/dshills/scriptmarks/internal/tags"
)

// Session is the part of a session the panel drives.
type Session interface {
	Host() host.Host
	Render() session.ViewModel

	Navigate(tag string) tags.Outcome
	Position(tag string) (k, n int)
	AddFavorite(tag string) bool
	RemoveFavorite(tag string) bool
	ToggleTheme()

	ToggleDismissed(key string) bool
	SetHideDismissed(hide bool)
	GoToEntry(key string) bool

	SetCueFilter(typ string)
	RenumberCues() (int, error)

	StartLint() []style.Finding
	StopLint()
	Linting() bool
}

var _ Session = (*session.Session)(nil)

// Section is a focusable part of the panel.
type Section int

const (
	SectionTags Section = iota
	SectionNotes
	SectionCues
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionTags:
		return "Tags"
	case SectionNotes:
		return "Notes"
	case SectionCues:
		return "Cues"
	default:
		return "?"
	}
}

// hit is the screen area of a drawn pill.
type hit struct {
	x0, x1, y int
	tag       string
}

// Panel is the terminal view of one session.
type Panel struct {
	screen tcell.Screen
	s      Session
	sched  loop.Scheduler
	logger *logging.Logger

	focus    Section
	selected [sectionCount]int
	offset   [sectionCount]int
	vm       session.ViewModel
	pills    []hit
	findings *style.Walker

	mu     sync.Mutex
	status string

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a panel drawing s on screen. The screen must already be
// initialised.
func New(screen tcell.Screen, s Session, sched loop.Scheduler, logger *logging.Logger) *Panel {
	if logger == nil {
		logger = logging.Null()
	}
	return &Panel{
		screen: screen,
		s:      s,
		sched:  sched,
		logger: logger.WithComponent("panel"),
		done:   make(chan struct{}),
	}
}

// OpenScreen creates and initialises the terminal screen.
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()
	return screen, nil
}

// Run forwards screen events to the loop until the user quits or ctx is
// done. It does not finalise the screen.
func (p *Panel) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	stop := make(chan struct{})
	go p.screen.ChannelEvents(events, stop)
	defer close(stop)

	p.sched.Post(p.Redraw)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.sched.Post(func() { p.HandleEvent(ev) })
		}
	}
}

// Quit makes Run return.
func (p *Panel) Quit() {
	p.doneOnce.Do(func() { close(p.done) })
}

// Done is closed once the user quits.
func (p *Panel) Done() <-chan struct{} {
	return p.done
}

// Notify shows a message on the status line. It is safe to call from any
// goroutine; the message appears on the next redraw.
func (p *Panel) Notify(title, message string) {
	p.setStatus(title + ": " + message)
}

// Status returns the status line text.
func (p *Panel) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Panel) setStatus(s string) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

// Focus returns the focused section.
func (p *Panel) Focus() Section {
	return p.focus
}

// Selected returns the selected row of the focused section.
func (p *Panel) Selected() int {
	return p.selected[p.focus]
}

// Redraw renders the session and shows it.
func (p *Panel) Redraw() {
	p.vm = p.s.Render()
	p.clampSelection()
	p.draw()
	p.screen.Show()
}

// HandleEvent applies one screen event and redraws.
func (p *Panel) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !p.handleKey(ev) {
			p.Quit()
			return
		}
	case *tcell.EventMouse:
		p.handleMouse(ev)
	case *tcell.EventResize:
		p.screen.Sync()
	}
	p.Redraw()
}

// handleKey returns false when the key asks to quit.
func (p *Panel) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		p.focus = (p.focus + 1) % sectionCount
	case tcell.KeyBacktab:
		p.focus = (p.focus + sectionCount - 1) % sectionCount
	case tcell.KeyUp, tcell.KeyLeft:
		p.move(-1)
	case tcell.KeyDown, tcell.KeyRight:
		p.move(1)
	case tcell.KeyEnter:
		p.activate()
	case tcell.KeyRune:
		return p.handleRune(ev.Rune())
	}
	return true
}

func (p *Panel) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'k':
		p.move(-1)
	case 'j':
		p.move(1)
	case 'f':
		p.toggleFavorite()
	case 't':
		p.s.ToggleTheme()
	case 'd':
		if item, ok := p.selectedNote(); ok {
			p.s.ToggleDismissed(item.Key)
		}
	case 'h':
		p.s.SetHideDismissed(!p.vm.HideDismissed)
	case 'c':
		p.s.SetCueFilter(p.nextCueFilter())
		p.selected[SectionCues] = 0
	case 'r':
		n, err := p.s.RenumberCues()
		if err != nil {
			p.setStatus("Renumber failed: " + err.Error())
			break
		}
		p.setStatus(fmt.Sprintf("Renumbered %d cues", n))
	case 'l':
		if p.s.Linting() {
			p.s.StopLint()
			p.findings = nil
			p.setStatus("Style check off")
		} else {
			found := p.s.StartLint()
			p.findings = style.NewWalker(found)
			p.setStatus(fmt.Sprintf("Style check: %d findings", len(found)))
		}
	case 'n':
		p.stepFinding(true)
	case 'p':
		p.stepFinding(false)
	}
	return true
}

// stepFinding scrolls to the next or previous style finding.
func (p *Panel) stepFinding(forward bool) {
	if p.findings == nil {
		return
	}
	var f style.Finding
	var ok bool
	if forward {
		f, ok = p.findings.Next()
	} else {
		f, ok = p.findings.Prev()
	}
	if !ok {
		return
	}
	p.s.Host().ScrollTo(f.Pos)
	k, n := p.findings.Position()
	p.setStatus(fmt.Sprintf("%s %q on line %d (%d/%d)", f.Category, f.Word, f.Line+1, k, n))
}

func (p *Panel) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	for i, h := range p.pills {
		if y == h.y && x >= h.x0 && x < h.x1 {
			p.focus = SectionTags
			p.selected[SectionTags] = i
			p.navigate(h.tag)
			return
		}
	}
}

func (p *Panel) allPills() []session.Pill {
	out := make([]session.Pill, 0, len(p.vm.Favorites)+len(p.vm.Others))
	out = append(out, p.vm.Favorites...)
	return append(out, p.vm.Others...)
}

func (p *Panel) count(s Section) int {
	switch s {
	case SectionTags:
		return len(p.vm.Favorites) + len(p.vm.Others)
	case SectionNotes:
		return len(p.vm.Notes)
	case SectionCues:
		return len(p.vm.Cues)
	}
	return 0
}

func (p *Panel) move(delta int) {
	n := p.count(p.focus)
	if n == 0 {
		return
	}
	p.selected[p.focus] = (p.selected[p.focus] + delta + n) % n
}

func (p *Panel) clampSelection() {
	for s := Section(0); s < sectionCount; s++ {
		n := p.count(s)
		if p.selected[s] >= n {
			p.selected[s] = max(n-1, 0)
		}
	}
}

func (p *Panel) selectedPill() (session.Pill, bool) {
	pills := p.allPills()
	i := p.selected[SectionTags]
	if i >= len(pills) {
		return session.Pill{}, false
	}
	return pills[i], true
}

func (p *Panel) selectedNote() (session.NoteItem, bool) {
	i := p.selected[SectionNotes]
	if p.focus != SectionNotes || i >= len(p.vm.Notes) {
		return session.NoteItem{}, false
	}
	return p.vm.Notes[i], true
}

func (p *Panel) activate() {
	switch p.focus {
	case SectionTags:
		if pill, ok := p.selectedPill(); ok {
			p.navigate(pill.Tag)
		}
	case SectionNotes:
		if item, ok := p.selectedNote(); ok && !p.s.GoToEntry(item.Key) {
			p.setStatus("Nothing to jump to for this entry")
		}
	case SectionCues:
		i := p.selected[SectionCues]
		if i < len(p.vm.Cues) {
			p.s.Host().ScrollTo(p.vm.Cues[i].Pos)
		}
	}
}

func (p *Panel) navigate(tag string) {
	switch p.s.Navigate(tag) {
	case tags.OutcomeJumped:
		k, n := p.s.Position(tag)
		p.setStatus(fmt.Sprintf("#%s %d/%d", tag, k, n))
	case tags.OutcomeNotepadOnly:
		p.setStatus(fmt.Sprintf("#%s is only in the notepad", tag))
	default:
		p.setStatus(fmt.Sprintf("#%s not found", tag))
	}
}

func (p *Panel) toggleFavorite() {
	if p.focus != SectionTags {
		return
	}
	pill, ok := p.selectedPill()
	if !ok {
		return
	}
	if p.selected[SectionTags] < len(p.vm.Favorites) {
		p.s.RemoveFavorite(pill.Tag)
		return
	}
	p.s.AddFavorite(pill.Tag)
}

// nextCueFilter cycles from all cues through each present type and back.
func (p *Panel) nextCueFilter() string {
	current := p.vm.CueFilter
	if current == "" || strings.EqualFold(current, cues.All) {
		if len(p.vm.CueCounts) == 0 {
			return cues.All
		}
		return p.vm.CueCounts[0].Type
	}
	for i, c := range p.vm.CueCounts {
		if strings.EqualFold(c.Type, current) && i+1 < len(p.vm.CueCounts) {
			return p.vm.CueCounts[i+1].Type
		}
	}
	return cues.All
}

func lintSummary(counts map[style.Category]int) string {
	if len(counts) == 0 {
		return "clean"
	}
	parts := make([]string, 0, len(counts))
	for c, n := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
