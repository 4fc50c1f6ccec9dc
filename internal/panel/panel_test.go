package panel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/session"
)

const script = "INT. HOUSE - DAY\n\nSOUND: Thunder [[#storm]]\nShe runs. [[check pacing]] [[#plot]]\nLIGHT: Blackout\n"

type fixture struct {
	buf    *host.Buffer
	s      *session.Session
	screen tcell.SimulationScreen
	p      *Panel
}

func newFixture(t *testing.T, sched loop.Scheduler) *fixture {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	buf := host.NewBuffer(script, "Later #plot")
	s := session.New(buf, session.Options{
		Scheduler: loop.NewManual(),
		Now:       func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) },
	})
	if sched == nil {
		sched = loop.NewManual()
		s.Start()
	}

	return &fixture{
		buf:    buf,
		s:      s,
		screen: screen,
		p:      New(screen, s, sched, nil),
	}
}

func screenText(scr tcell.Screen) string {
	w, h := scr.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := scr.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func special(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestRedraw_ShowsSections(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	text := screenText(f.screen)
	assert.Contains(t, text, "scriptmarks")
	assert.Contains(t, text, " storm 1 ")
	assert.Contains(t, text, " plot 2 ")
	assert.Contains(t, text, "check pacing")
	assert.Contains(t, text, "Thunder")
	assert.Contains(t, text, "Blackout")
	assert.Contains(t, text, "today")
	assert.Contains(t, text, "tab section")
}

func TestRedraw_EmptyDocument(t *testing.T) {
	f := newFixture(t, nil)
	f.buf.SetText("INT. ROOM - NIGHT\n")
	f.buf.SetNotepad("")
	f.s.Refresh()
	f.p.Redraw()

	text := screenText(f.screen)
	assert.Contains(t, text, "No tags yet")
	assert.Contains(t, text, "No cues.")
}

func TestRedraw_TinyScreen(t *testing.T) {
	f := newFixture(t, nil)
	f.screen.SetSize(5, 3)
	assert.NotPanics(t, f.p.Redraw)
}

func TestKeys_TabCyclesSections(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	assert.Equal(t, SectionTags, f.p.Focus())
	f.p.HandleEvent(special(tcell.KeyTab))
	assert.Equal(t, SectionNotes, f.p.Focus())
	f.p.HandleEvent(special(tcell.KeyTab))
	assert.Equal(t, SectionCues, f.p.Focus())
	f.p.HandleEvent(special(tcell.KeyTab))
	assert.Equal(t, SectionTags, f.p.Focus())
	f.p.HandleEvent(special(tcell.KeyBacktab))
	assert.Equal(t, SectionCues, f.p.Focus())
}

func TestKeys_NavigateSelectedTag(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(special(tcell.KeyDown))
	assert.Equal(t, 1, f.p.Selected())
	f.p.HandleEvent(special(tcell.KeyEnter))

	assert.Equal(t, "#plot 1/1", f.p.Status())
	assert.NotEqual(t, -1, f.buf.ScrollPosition())
	assert.Contains(t, screenText(f.screen), "#plot 1/1")
}

func TestKeys_SelectionWraps(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(key('k'))
	assert.Equal(t, 1, f.p.Selected())
	f.p.HandleEvent(key('j'))
	assert.Equal(t, 0, f.p.Selected())
}

func TestKeys_Favorite(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(special(tcell.KeyDown))
	f.p.HandleEvent(key('f'))
	assert.Equal(t, []string{"plot"}, f.s.Favorites())

	// plot now leads the list as a favorite
	f.p.HandleEvent(special(tcell.KeyUp))
	assert.Equal(t, 0, f.p.Selected())
	f.p.HandleEvent(key('f'))
	assert.Empty(t, f.s.Favorites())
}

func TestKeys_DismissAndHide(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(special(tcell.KeyTab))
	vm := f.s.Render()
	idx := -1
	for i, n := range vm.Notes {
		if n.Kind == notes.KindNote && strings.Contains(n.Content, "check pacing") {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	for i := 0; i < idx; i++ {
		f.p.HandleEvent(special(tcell.KeyDown))
	}

	f.p.HandleEvent(key('d'))
	assert.True(t, f.s.Render().Notes[idx].Dismissed)
	assert.Contains(t, screenText(f.screen), "[x] note check pacing")

	f.p.HandleEvent(key('h'))
	assert.Len(t, f.s.Render().Notes, len(vm.Notes)-1)
	assert.Contains(t, screenText(f.screen), "done hidden")
}

func TestKeys_DismissNeedsNotesFocus(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(key('d'))
	for _, n := range f.s.Render().Notes {
		assert.False(t, n.Dismissed)
	}
}

func TestKeys_CueFilterCycles(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	assert.Equal(t, cues.All, f.s.CueFilter())
	f.p.HandleEvent(key('c'))
	assert.Equal(t, "LIGHT", f.s.CueFilter())
	assert.Len(t, f.s.Render().Cues, 1)
	assert.Contains(t, screenText(f.screen), "Cues (1) LIGHT")
	f.p.HandleEvent(key('c'))
	assert.Equal(t, "SOUND", f.s.CueFilter())
	f.p.HandleEvent(key('c'))
	assert.Equal(t, cues.All, f.s.CueFilter())
	assert.Len(t, f.s.Render().Cues, 2)
}

func TestKeys_CueEnterScrolls(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(special(tcell.KeyBacktab))
	require.Equal(t, SectionCues, f.p.Focus())
	f.p.HandleEvent(special(tcell.KeyEnter))
	assert.Equal(t, f.s.Cues()[0].Pos, f.buf.ScrollPosition())
}

func TestKeys_Renumber(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()

	f.p.HandleEvent(key('r'))
	assert.Equal(t, "Renumbered 2 cues", f.p.Status())
	assert.Contains(t, f.buf.Text(), "SOUND (cue 1): Thunder")
}

func TestKeys_ThemeAndLint(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()
	dark := f.s.Dark()

	f.p.HandleEvent(key('t'))
	assert.Equal(t, !dark, f.s.Dark())

	f.p.HandleEvent(key('l'))
	assert.True(t, f.s.Linting())
	assert.Contains(t, f.p.Status(), "Style check:")
	assert.Contains(t, screenText(f.screen), "Style: ")

	f.p.HandleEvent(key('l'))
	assert.False(t, f.s.Linting())
}

func TestKeys_StepFindings(t *testing.T) {
	f := newFixture(t, nil)
	f.buf.SetText(script + "\nShe walks very slowly and quietly.\n")
	f.s.Refresh()
	f.p.Redraw()

	f.p.HandleEvent(key('n'))
	assert.Equal(t, -1, f.buf.ScrollPosition(), "no walker before linting")

	f.p.HandleEvent(key('l'))
	findings := f.s.Findings()
	require.NotEmpty(t, findings)

	f.p.HandleEvent(key('n'))
	assert.Equal(t, findings[0].Pos, f.buf.ScrollPosition())
	assert.Contains(t, f.p.Status(), "(1/")

	if len(findings) > 1 {
		f.p.HandleEvent(key('n'))
		assert.Equal(t, findings[1].Pos, f.buf.ScrollPosition())
		f.p.HandleEvent(key('p'))
		assert.Equal(t, findings[0].Pos, f.buf.ScrollPosition())
	}
}

func TestKeys_Quit(t *testing.T) {
	for _, ev := range []*tcell.EventKey{key('q'), special(tcell.KeyEscape), special(tcell.KeyCtrlC)} {
		f := newFixture(t, nil)
		f.p.HandleEvent(ev)
		select {
		case <-f.p.Done():
		default:
			t.Fatalf("%v did not quit", ev.Name())
		}
	}
}

func TestMouse_ClickPillNavigates(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Redraw()
	require.NotEmpty(t, f.p.pills)

	h := f.p.pills[0]
	f.p.HandleEvent(tcell.NewEventMouse(h.x0, h.y, tcell.Button1, tcell.ModNone))
	assert.Equal(t, "#storm 1/1", f.p.Status())

	f.p.HandleEvent(tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone))
	assert.Equal(t, "#storm 1/1", f.p.Status())
}

func TestNotify(t *testing.T) {
	f := newFixture(t, nil)
	f.p.Notify("Export", "Saved 2 cues")
	f.p.Redraw()
	assert.Contains(t, screenText(f.screen), "Export: Saved 2 cues")
}

func TestRun_QuitsOnKey(t *testing.T) {
	l := loop.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	f := newFixture(t, l)
	l.Post(f.s.Start)

	errc := make(chan error, 1)
	go func() { errc <- f.p.Run(ctx) }()

	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("panel did not quit")
	}
}

func TestRun_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newFixture(t, nil)

	errc := make(chan error, 1)
	go func() { errc <- f.p.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("panel did not stop")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 6))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
	assert.Equal(t, "日…", truncate("日本語", 4))
	assert.Equal(t, "…", truncate("abc", 1))
	assert.Equal(t, "", truncate("abc", 0))
}
