package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/loop"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestReload_Debounced(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "script.fountain")
	pad := filepath.Join(dir, "notes.txt")
	writeFile(t, doc, "old")
	writeFile(t, pad, "")

	buf := host.NewBuffer("old", "")
	var changes []host.Change
	buf.OnChange(func(c host.Change) { changes = append(changes, c) })

	sched := loop.NewManual()
	w, err := New(buf, sched, doc, pad, Options{Settle: 50 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, doc, "new [[#tag]]")
	w.handle(fsnotify.Event{Name: doc, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: doc, Op: fsnotify.Write})
	sched.Advance(40 * time.Millisecond)
	assert.Equal(t, "old", buf.Text())

	sched.Advance(20 * time.Millisecond)
	assert.Equal(t, "new [[#tag]]", buf.Text())

	writeFile(t, pad, "idea")
	w.handle(fsnotify.Event{Name: pad, Op: fsnotify.Create})
	sched.Advance(time.Second)
	assert.Equal(t, "idea", buf.Notepad())

	assert.Equal(t, []host.Change{host.TextChanged, host.NotepadChanged}, changes)
}

func TestReload_IgnoresOthers(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "script.fountain")
	writeFile(t, doc, "same")

	buf := host.NewBuffer("same", "")
	changed := 0
	buf.OnChange(func(host.Change) { changed++ })

	sched := loop.NewManual()
	w, err := New(buf, sched, doc, "", Options{})
	require.NoError(t, err)
	defer w.Close()

	w.handle(fsnotify.Event{Name: filepath.Join(dir, "other.txt"), Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: doc, Op: fsnotify.Remove})
	w.handle(fsnotify.Event{Name: doc, Op: fsnotify.Chmod})
	assert.Zero(t, sched.Pending())

	w.handle(fsnotify.Event{Name: doc, Op: fsnotify.Write})
	sched.Advance(time.Second)
	assert.Zero(t, changed, "identical contents are not applied")
}

func TestRun_RealLoop(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "script.fountain")
	writeFile(t, doc, "before")

	buf := host.NewBuffer("before", "")
	l := loop.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	w, err := New(buf, l, doc, "", Options{Settle: 10 * time.Millisecond})
	require.NoError(t, err)
	go func() { _ = w.Run(ctx) }()
	defer w.Close()

	tmp := filepath.Join(dir, ".script.tmp")
	writeFile(t, tmp, "after")
	require.NoError(t, os.Rename(tmp, doc))

	assert.Eventually(t, func() bool {
		return buf.Text() == "after"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRun_Close(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "script.fountain")
	writeFile(t, doc, "")

	w, err := New(host.NewBuffer("", ""), loop.NewManual(), doc, "", Options{})
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- w.Run(context.Background()) }()
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrWatcherClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(host.NewBuffer("", ""), loop.NewManual(), "/does/not/exist/script.fountain", "", Options{})
	assert.Error(t, err)
}
