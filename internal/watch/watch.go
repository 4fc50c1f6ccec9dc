// Package watch reloads the open document and notepad when they change on
// disk.
//
// The watcher observes the directories holding the files rather than the
// files themselves, so editors that save by writing a temporary file and
// renaming it over the original are still seen. Bursts of events for one
// file are debounced on the session loop; the reload itself runs there too.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/loop"
)

// DefaultSettle is how long a file must stay quiet before it is reloaded.
const DefaultSettle = 100 * time.Millisecond

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Target receives reloaded contents. host.Buffer implements it.
type Target interface {
	Text() string
	SetText(text string)
	Notepad() string
	SetNotepad(text string)
}

// File identifies which of the two watched files changed.
type File int

const (
	// Document is the screenplay.
	Document File = iota
	// Notepad is the notepad file.
	Notepad
)

func (f File) String() string {
	if f == Notepad {
		return "notepad"
	}
	return "document"
}

// Options configures a Watcher.
type Options struct {
	// Settle is the debounce period per file. Zero means DefaultSettle.
	Settle time.Duration
	Logger *logging.Logger
}

// Watcher feeds on-disk edits into a Target.
type Watcher struct {
	fsw    *fsnotify.Watcher
	target Target
	sched  loop.Scheduler
	settle time.Duration
	logger *logging.Logger

	// files maps cleaned absolute paths to what they hold.
	files map[string]File

	closeOnce sync.Once
	done      chan struct{}
}

// New watches docPath and, if not empty, notepadPath. Reloads are posted
// to sched, which must be safe for use from another goroutine.
func New(target Target, sched loop.Scheduler, docPath, notepadPath string, opts Options) (*Watcher, error) {
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}

	files := make(map[string]File, 2)
	for f, p := range map[File]string{Document: docPath, Notepad: notepadPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[filepath.Clean(abs)] = f
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for p := range files {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return &Watcher{
		fsw:    fsw,
		target: target,
		sched:  sched,
		settle: opts.Settle,
		logger: opts.Logger.WithComponent("watch"),
		files:  files,
		done:   make(chan struct{}),
	}, nil
}

// Run delivers events until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return ErrWatcherClosed
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// handle schedules a reload for writes and creations of a watched file.
// Removals are ignored: the buffer keeps its text until the file returns.
func (w *Watcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	f, ok := w.files[path]
	if !ok {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		w.logger.Debug("ignoring %s on %s", ev.Op, f)
		return
	}
	w.sched.Debounce("watch:"+path, w.settle, func() {
		w.reload(path, f)
	})
}

// reload runs on the loop. Contents equal to the current text are not
// applied, so the session's own saves do not trigger a rescan.
func (w *Watcher) reload(path string, f File) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("reloading %s: %v", f, err)
		return
	}
	text := string(data)

	switch f {
	case Document:
		if text == w.target.Text() {
			return
		}
		w.target.SetText(text)
	case Notepad:
		if text == w.target.Notepad() {
			return
		}
		w.target.SetNotepad(text)
	}
	w.logger.Info("reloaded %s (%d bytes)", f, len(data))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
