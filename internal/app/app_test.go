package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/scriptmarks/internal/config"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/session"
	"github.com/dshills/scriptmarks/internal/store"
)

const script = "INT. HOUSE - DAY\n\nSOUND: Thunder [[#storm]]\nShe runs. [[#plot]]\nLIGHT: Blackout\n"

type fixture struct {
	dir     string
	doc     string
	notepad string
	cfg     *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:     dir,
		doc:     filepath.Join(dir, "pilot.fountain"),
		notepad: filepath.Join(dir, "pilot.notes"),
		cfg:     config.Default(),
	}
	f.cfg.Paths.DataDir = filepath.Join(dir, "data")
	f.cfg.Debounce.Rescan = config.Duration(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(f.doc, []byte(script), 0o644))
	return f
}

func (f *fixture) options() Options {
	return Options{
		DocumentPath: f.doc,
		NotepadPath:  f.notepad,
		Config:       f.cfg,
		Now:          func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) },
	}
}

func (f *fixture) start(t *testing.T, opts Options) *Application {
	t.Helper()
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	require.NoError(t, app.Start(context.Background()))
	return app
}

func tagsOf(t *testing.T, app *Application) []string {
	t.Helper()
	var out []string
	require.NoError(t, app.Do(context.Background(), func(s *session.Session) error {
		out = s.Result().Index.Tags()
		return nil
	}))
	return out
}

func TestNew_MissingDocument(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.DocumentPath = filepath.Join(f.dir, "missing.fountain")

	_, err := New(opts)
	var ce *ComponentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "document", ce.Component)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStart_ScansDocument(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	assert.Equal(t, []string{"storm", "plot"}, tagsOf(t, app))
	assert.Equal(t, uint64(1), app.Metrics().Snapshot().Refreshes)
}

func TestStart_Twice(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())
	assert.ErrorIs(t, app.Start(context.Background()), ErrAlreadyRunning)
}

func TestSettings_PersistPerDocument(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	require.NoError(t, app.Do(context.Background(), func(s *session.Session) error {
		require.True(t, s.AddFavorite("storm"))
		return s.SetColor("storm", "#336699")
	}))

	path := app.SettingsPath()
	require.NotEmpty(t, path)
	assert.True(t, strings.HasPrefix(path, filepath.Join(f.cfg.Paths.DataDir, "documents")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["storm"]`, gjson.GetBytes(data, store.KeyFavoriteTags).Raw)

	data, err = os.ReadFile(store.UserDefaultsPath(f.cfg.Paths.DataDir))
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, store.KeyTagColors).Exists())

	// a second run of the same document sees the favorite
	app.Shutdown()
	again := f.start(t, f.options())
	require.NoError(t, again.Do(context.Background(), func(s *session.Session) error {
		assert.Equal(t, []string{"storm"}, s.Favorites())
		return nil
	}))
}

func TestStart_RunsConfiguredScripts(t *testing.T) {
	f := newFixture(t)
	scripts := filepath.Join(f.dir, "scripts")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "hello.lua"),
		[]byte(`local sm = require("sm")
sm.ui.notify("tags: " .. #sm.tags.list())`), 0o644))
	f.cfg.Scripts.Dir = scripts

	app := f.start(t, f.options())

	assert.Contains(t, app.Buffer().Notices(), host.Notice{Title: "scriptmarks", Message: "tags: 2"})
	assert.Equal(t, uint64(1), app.Metrics().Snapshot().Scripts)
}

func TestRunScripts_FailureNotifies(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	bad := filepath.Join(f.dir, "bad.lua")
	good := filepath.Join(f.dir, "good.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`error("boom")`), 0o644))
	require.NoError(t, os.WriteFile(good, []byte(`require("sm.cues").renumber()`), 0o644))

	err := app.RunScripts(context.Background(), bad, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	notices := app.Buffer().Notices()
	require.NotEmpty(t, notices)
	assert.Equal(t, "Script failed", notices[0].Title)
	assert.Contains(t, app.Buffer().Text(), "SOUND (cue 1): Thunder")

	snap := app.Metrics().Snapshot()
	assert.Equal(t, uint64(2), snap.Scripts)
	assert.Equal(t, uint64(1), snap.ScriptFailures)
}

func TestSave_WritesOnlyChanges(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	wrote, err := app.Save()
	require.NoError(t, err)
	assert.False(t, wrote)

	require.NoError(t, app.Do(context.Background(), func(s *session.Session) error {
		_, err := s.RenumberCues()
		return err
	}))
	wrote, err = app.Save()
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(f.doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "LIGHT (cue 2): Blackout")
	assert.NoFileExists(t, f.notepad)
}

func TestSave_Notepad(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	require.NoError(t, app.Do(context.Background(), func(s *session.Session) error {
		return s.Capture("Give Anna a dog")
	}))
	wrote, err := app.Save()
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(f.notepad)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Give Anna a dog")
}

func TestWatch_ReloadsDocument(t *testing.T) {
	f := newFixture(t)
	opts := f.options()
	opts.Watch = true
	app := f.start(t, opts)

	require.NoError(t, os.WriteFile(f.doc, []byte(script+"A new beat. [[#twist]]\n"), 0o644))

	assert.Eventually(t, func() bool {
		for _, tag := range tagsOf(t, app) {
			if tag == "twist" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotZero(t, app.Metrics().Snapshot().Changes)
}

func TestPanel_NoticesAndQuit(t *testing.T) {
	f := newFixture(t)
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 30)

	opts := f.options()
	opts.Panel = true
	opts.Screen = screen
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx))

	require.NoError(t, app.Do(ctx, func(s *session.Session) error {
		s.Host().Notify("Export", "done")
		return nil
	}))
	assert.Equal(t, "Export: done", app.Panel().Status())

	errc := make(chan error, 1)
	go func() { errc <- app.Wait(ctx) }()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("panel did not quit")
	}
}

func TestShutdown(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	app.Shutdown()
	app.Shutdown()

	err := app.Do(context.Background(), func(*session.Session) error { return nil })
	assert.ErrorIs(t, err, ErrShutdown)
	assert.ErrorIs(t, app.Start(context.Background()), ErrShutdown)
}

func TestDo_RecoversPanic(t *testing.T) {
	f := newFixture(t)
	app := f.start(t, f.options())

	err := app.Do(context.Background(), func(*session.Session) error { panic("bad") })
	var pe *RecoveredPanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "panic: bad", pe.Error())

	// the loop survives
	assert.NotEmpty(t, tagsOf(t, app))
}

func TestMetricsSnapshot_String(t *testing.T) {
	m := NewMetrics()
	m.RecordChange()
	m.RecordScript(nil)
	m.RecordScript(errors.New("x"))

	s := m.Snapshot().String()
	assert.Contains(t, s, "changes=1")
	assert.Contains(t, s, "scripts=2 failed=1")
}
