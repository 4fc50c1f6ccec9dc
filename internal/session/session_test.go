package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/scriptmarks/internal/config"
	"github.com/dshills/scriptmarks/internal/contd"
	"github.com/dshills/scriptmarks/internal/cues"
	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/notes"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/tags"
)

const plotText = "ACTION: [[#plot]]\nHe walks to the window slowly.[[#plot]]"

type fixture struct {
	buf      *host.Buffer
	sched    *loop.Manual
	defaults *store.Memory
	settings *store.Memory
	s        *Session
}

func newFixture(t *testing.T, text, notepad string) *fixture {
	t.Helper()
	f := &fixture{
		buf:      host.NewBuffer(text, notepad),
		sched:    loop.NewManual(),
		defaults: store.NewMemory(),
		settings: store.NewMemory(),
	}
	f.s = New(f.buf, Options{
		Defaults:  f.defaults,
		Settings:  f.settings,
		Scheduler: f.sched,
		Now:       func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) },
	})
	return f
}

func TestStart_NoTags(t *testing.T) {
	f := newFixture(t, "INT. HOUSE - DAY\n\nNothing tagged.", "")
	f.s.Start()

	require.Len(t, f.buf.Notices(), 1)
	assert.Equal(t, host.Notice{Title: NoTagsTitle, Message: NoTagsMessage}, f.buf.Notices()[0])
}

func TestStart_ScansAndHighlights(t *testing.T) {
	f := newFixture(t, plotText, "Remember #plot and #theme")
	f.s.Start()

	assert.Empty(t, f.buf.Notices())
	ix := f.s.Result().Index
	assert.Equal(t, []string{"plot", "theme"}, ix.Tags())
	assert.Equal(t, 3, ix.Count("plot"))

	_, ok := f.buf.Highlight(10, 5)
	assert.True(t, ok)
	_, ok = f.buf.Highlight(50, 5)
	assert.True(t, ok)
	assert.Equal(t, 1, f.s.Refreshes())
}

func TestNavigate_RoundRobin(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	var got []int
	for i := 0; i < 3; i++ {
		assert.Equal(t, tags.OutcomeJumped, f.s.Navigate("PLOT"))
		got = append(got, f.buf.ScrollPosition())
	}
	assert.Equal(t, []int{10, 50, 10}, got)

	k, n := f.s.Position("plot")
	assert.Equal(t, 1, k)
	assert.Equal(t, 2, n)

	assert.Equal(t, tags.OutcomeNone, f.s.Navigate("missing"))
}

func TestNavigate_NotepadOnly(t *testing.T) {
	f := newFixture(t, plotText, "#idea")
	f.s.Start()

	assert.Equal(t, tags.OutcomeNotepadOnly, f.s.Navigate("idea"))
	require.NotEmpty(t, f.buf.Notices())
	assert.Equal(t, tags.NotepadOnlyTitle, f.buf.Notices()[0].Title)
}

func TestTextChanged_Debounces(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	f.buf.SetText("[[#other]]")
	f.s.TextChanged()
	f.sched.Advance(time.Second)
	f.s.NotepadChanged()
	f.sched.Advance(time.Second)
	assert.Equal(t, 1, f.s.Refreshes())

	f.sched.Advance(time.Second)
	assert.Equal(t, 2, f.s.Refreshes())
	assert.Equal(t, []string{"other"}, f.s.Result().Index.Tags())
}

func TestSetColor_PersistsAndRepaints(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	require.NoError(t, f.s.SetColor("plot", "#202020"))
	c, ok := f.buf.Highlight(10, 5)
	require.True(t, ok)
	assert.Equal(t, "#202020", c)
	assert.Equal(t, "#202020", gjson.Get(f.defaults.JSON(), "tagColors.plot").String())

	assert.ErrorIs(t, f.s.SetColor("plot", "blue"), ErrInvalidColor)
}

func TestPreviewColor_DoesNotPersist(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	require.NoError(t, f.s.PreviewColor("plot", "#303030"))
	c, _ := f.buf.Highlight(50, 5)
	assert.Equal(t, "#303030", c)
	_, ok := f.defaults.Get(store.KeyTagColors)
	assert.False(t, ok)
}

func TestMalformedColorsDiscarded(t *testing.T) {
	f := newFixture(t, plotText, "")
	require.NoError(t, f.defaults.Set(store.KeyTagColors, map[string]any{"plot": 12}))
	s := New(f.buf, Options{Defaults: f.defaults, Settings: f.settings, Scheduler: f.sched})
	s.Start()

	assert.Equal(t, config.Default().Fallback().Hex(), s.Render().Others[0].Background)
}

func TestFavorites(t *testing.T) {
	f := newFixture(t, plotText+"\n[[#theme]]", "")
	f.s.Start()

	assert.True(t, f.s.AddFavorite("theme"))
	assert.False(t, f.s.AddFavorite("theme"))
	assert.False(t, f.s.AddFavorite("ghost"))
	assert.Equal(t, []string{"theme"}, store.Strings(f.settings, store.KeyFavoriteTags))

	vm := f.s.Render()
	require.Len(t, vm.Favorites, 1)
	assert.Equal(t, "theme", vm.Favorites[0].Tag)
	require.Len(t, vm.Others, 1)
	assert.Equal(t, "plot", vm.Others[0].Tag)

	f.buf.SetText(plotText)
	f.s.Refresh()
	assert.Empty(t, f.s.Favorites())
	assert.Empty(t, store.Strings(f.settings, store.KeyFavoriteTags))

	assert.False(t, f.s.RemoveFavorite("theme"))
}

func TestToggleTheme(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()
	require.True(t, f.s.Dark())
	before, _ := f.buf.Highlight(10, 5)

	f.s.ToggleTheme()
	assert.False(t, f.s.Dark())
	assert.False(t, store.Bool(f.defaults, store.KeyThemePreference, true))
	after, _ := f.buf.Highlight(10, 5)
	assert.NotEqual(t, before, after)
	assert.False(t, f.s.Render().Dark)
}

func TestRender_SpecialPillIsOutline(t *testing.T) {
	f := newFixture(t, "[[Storyline: Heist]]\n[[#plot]]", "")
	f.s.Start()

	vm := f.s.Render()
	require.Len(t, vm.Others, 2)
	assert.Equal(t, "heist", vm.Others[0].Tag)
	assert.Equal(t, PillOutline, vm.Others[0].Style)
	assert.Empty(t, vm.Others[0].Background)
	assert.Equal(t, PillFilled, vm.Others[1].Style)
	assert.Equal(t, "1/1", vm.Others[1].Tooltip())
}

func TestNotes_DismissAndHide(t *testing.T) {
	f := newFixture(t, "= Opening beat\n\nShe runs. [[check pacing]]", "Idea one\n\nIdea two")
	f.s.Start()

	vm := f.s.Render()
	require.Len(t, vm.Notes, 4)
	key := vm.Notes[1].Key
	assert.Equal(t, notes.KindNote, vm.Notes[1].Kind)

	assert.True(t, f.s.ToggleDismissed(key))
	assert.Equal(t, []string{key}, store.Strings(f.settings, store.KeyDismissedEntries))
	assert.True(t, f.s.Render().Notes[1].Dismissed)

	f.s.SetHideDismissed(true)
	assert.Len(t, f.s.Render().Notes, 3)

	assert.True(t, f.s.GoToEntry(key))
	assert.Equal(t, vm.Notes[1].Pos, f.buf.ScrollPosition())
	assert.False(t, f.s.GoToEntry(vm.Notes[3].Key), "notepad entries have no position")
}

type panicky struct {
	*host.Buffer
	panic     bool
	textPanic bool
}

func (p *panicky) Text() string {
	if p.textPanic {
		panic("broken text")
	}
	return p.Buffer.Text()
}

func (p *panicky) Lines() []fountain.Line {
	if p.panic {
		panic("broken document")
	}
	return p.Buffer.Lines()
}

func TestRefresh_PanicKeepsPreviousIndex(t *testing.T) {
	h := &panicky{Buffer: host.NewBuffer(plotText, "")}
	s := New(h, Options{Scheduler: loop.NewManual()})
	s.Start()
	prev := s.Result()

	h.panic = true
	assert.NotPanics(t, s.Refresh)
	assert.Same(t, prev, s.Result())
	_, ok := h.Highlight(10, 5)
	assert.True(t, ok, "previous highlights repainted")
}

func TestRefresh_LatePanicKeepsEverything(t *testing.T) {
	h := &panicky{Buffer: host.NewBuffer(plotText+"\n[[#theme]] [[check this]]", "")}
	settings := store.NewMemory()
	s := New(h, Options{Scheduler: loop.NewManual(), Settings: settings})
	s.Start()
	require.True(t, s.AddFavorite("theme"))
	prev := s.Result()
	entries := s.Entries()
	cueList := s.Cues()
	before := h.Highlights()

	h.SetText("INT. NEW - DAY\n\nSOUND: Rain [[#storm]]")
	h.textPanic = true
	assert.NotPanics(t, s.Refresh)

	assert.Same(t, prev, s.Result())
	assert.Equal(t, entries, s.Entries())
	assert.Equal(t, cueList, s.Cues())
	assert.Equal(t, []string{"theme"}, s.Favorites())
	assert.Equal(t, []string{"theme"}, store.Strings(settings, store.KeyFavoriteTags))
	assert.Equal(t, before, h.Highlights())
	assert.Equal(t, 1, s.Refreshes())
}

func TestClose_StopsFlash(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	f.s.Navigate("plot")
	f.s.Close()
	require.Empty(t, f.buf.Highlights())

	f.sched.Advance(2 * time.Second)
	assert.Empty(t, f.buf.Highlights())
}

func TestRefresh_StopsStaleFlash(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	f.s.Navigate("plot")
	// advance into the off phase of the flash on offset 10
	f.sched.Advance(250 * time.Millisecond)

	f.buf.SetText("INT. HALL - NIGHT\n\n\n" + plotText)
	f.s.Refresh()
	f.sched.Advance(2 * time.Second)

	_, stale := f.buf.Highlight(10, 5)
	assert.False(t, stale, "old offset repainted")
	for _, pos := range []int{30, 70} {
		_, ok := f.buf.Highlight(pos, 5)
		assert.True(t, ok, "occurrence at %d", pos)
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t, plotText+"\n\nSOUND: Thunder", "")
	f.s.Start()
	require.NotEmpty(t, f.buf.Highlights())

	f.s.TextChanged()
	f.s.Close()
	assert.Empty(t, f.buf.Highlights())
	assert.True(t, f.s.Closed())

	f.sched.Advance(time.Minute)
	assert.Equal(t, 1, f.s.Refreshes())
	assert.ErrorIs(t, f.s.SetColor("plot", "#000000"), ErrClosed)
}

func TestCues(t *testing.T) {
	f := newFixture(t, "SOUND: Thunder\n\nLIGHT: Blackout\n\nSOUND (cue 9): Rain", "")
	f.s.Start()

	vm := f.s.Render()
	require.Len(t, vm.Cues, 3)
	assert.Equal(t, "#3498db", vm.Cues[0].Color)
	assert.Equal(t, []cues.TypeCount{{Type: "LIGHT", Count: 1}, {Type: "SOUND", Count: 2}}, vm.CueCounts)

	f.s.SetCueFilter("SOUND")
	assert.Len(t, f.s.Render().Cues, 2)

	n, err := f.s.RenumberCues()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "SOUND (cue 1): Thunder\n\nLIGHT: Blackout\n\nSOUND (cue 2): Rain", f.buf.Text())

	require.NoError(t, f.s.SetCueHidden("LIGHT", true))
	assert.Equal(t, "SOUND (cue 1): Thunder\n\n[[LIGHT: Blackout]]\n\nSOUND (cue 2): Rain", f.buf.Text())
	assert.True(t, gjson.Get(f.defaults.JSON(), "cuePreferences.LIGHT.hide").Bool())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportCues_FailureNotifies(t *testing.T) {
	f := newFixture(t, "SOUND: Thunder", "")
	f.s.Start()

	_, err := f.s.ExportCues(failingWriter{}, cues.CSV)
	require.Error(t, err)
	notices := f.buf.Notices()
	require.NotEmpty(t, notices)
	assert.Equal(t, ExportFailedTitle, notices[len(notices)-1].Title)

	f.s.SetCueFilter("VIDEO")
	_, err = f.s.ExportCues(failingWriter{}, cues.CSV)
	assert.ErrorIs(t, err, cues.ErrNoCues)
}

func TestExportCuesFile(t *testing.T) {
	f := newFixture(t, "SOUND: Thunder", "")
	f.s.Start()

	path := t.TempDir() + "/cues.csv"
	n, err := f.s.ExportCuesFile(path, cues.CSV)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, path)
}

func TestContd(t *testing.T) {
	f := newFixture(t, "ANNA\nHi.\n\nANNA\nAgain.", "")
	f.s.Start()

	n, err := f.s.AddContd()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ANNA\nHi.\n\nANNA (CONT'D)\nAgain.", f.buf.Text())

	f.buf.SetText("ANNA (CONT'D)\nHi.")
	n, err = f.s.CleanContd(contd.Strict)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ANNA\nHi.", f.buf.Text())
}

func TestLint(t *testing.T) {
	f := newFixture(t, "He quickly runs.", "")
	f.s.Start()

	found := f.s.StartLint()
	require.NotEmpty(t, found)
	c, ok := f.buf.Highlight(found[0].Pos, found[0].Len)
	assert.True(t, ok)
	assert.Equal(t, found[0].Category.Color(), c)

	f.s.Refresh()
	assert.Equal(t, found, f.s.Findings(), "lint survives refresh")

	f.s.StopLint()
	_, ok = f.buf.Highlight(found[0].Pos, found[0].Len)
	assert.False(t, ok)
}

func TestGoals(t *testing.T) {
	f := newFixture(t, "One two three four.", "")
	f.s.Start()
	assert.Equal(t, 4, f.s.Progress().Project)
	assert.Equal(t, 0, f.s.Progress().Daily)

	require.NoError(t, f.s.SetGoals(10, 40, "2026-05-08"))
	p := f.s.Progress()
	assert.Equal(t, 36, p.Remaining)
	assert.Equal(t, 4, p.DaysLeft)
	assert.Equal(t, 9, p.PerDay)

	f.buf.SetText("One two three four five six.")
	f.s.Refresh()
	assert.Equal(t, 2, f.s.Progress().Daily)

	require.NoError(t, f.s.ResetDaily())
	assert.Equal(t, 0, f.s.Progress().Daily)
}

func TestCapture(t *testing.T) {
	f := newFixture(t, plotText, "")
	f.s.Start()

	require.NoError(t, f.s.Capture("A new #twist"))
	assert.Equal(t, "A new #twist\n\n", f.buf.Notepad())
	assert.True(t, f.s.Result().Index.Has("twist"))
}
