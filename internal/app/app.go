// Package app wires a screenplay file to a session and runs it. It owns the
// event loop, the settings stores, the file watcher, Lua scripts and the
// terminal panel, and manages their lifecycle.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scriptmarks/internal/config"
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/panel"
	"github.com/dshills/scriptmarks/internal/plugin"
	"github.com/dshills/scriptmarks/internal/session"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/watch"
)

// Options configures the application.
type Options struct {
	// DocumentPath is the screenplay file.
	DocumentPath string

	// NotepadPath is the notepad file. Empty keeps the notepad in memory.
	NotepadPath string

	// Config supplies every tunable. Nil means config.Default().
	Config *config.Config

	Logger *logging.Logger

	// Watch reloads the document and notepad when they change on disk.
	Watch bool

	// Panel shows the interactive terminal panel.
	Panel bool

	// Screen replaces the terminal when Panel is set.
	Screen tcell.Screen

	// ScriptOutput receives print output from Lua scripts. Nil discards it.
	ScriptOutput io.Writer

	// Now is the session clock. Nil means time.Now.
	Now func() time.Time
}

// Application is the central coordinator for one open screenplay.
type Application struct {
	opts    Options
	cfg     *config.Config
	logger  *logging.Logger
	metrics *Metrics

	buf      *host.Buffer
	host     *noticeHost
	defaults store.Store
	settings store.Store

	loop    *loop.Loop
	session *session.Session
	runner  *plugin.Runner
	watcher *watch.Watcher
	panel   *panel.Panel
	screen  tcell.Screen

	cancel     context.CancelFunc
	loopDone   chan struct{}
	running    atomic.Bool
	shutdown   atomic.Bool
	shutdownMu sync.Once
}

// New loads the document and builds every component. Nothing runs until
// Start.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}

	app := &Application{
		opts:     opts,
		cfg:      opts.Config,
		logger:   opts.Logger.WithComponent("app"),
		metrics:  NewMetrics(),
		loopDone: make(chan struct{}),
	}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Session returns the session. Its methods must run on the loop; use Do.
func (app *Application) Session() *session.Session {
	return app.session
}

// Buffer returns the document buffer.
func (app *Application) Buffer() *host.Buffer {
	return app.buf
}

// Runner returns the script runner.
func (app *Application) Runner() *plugin.Runner {
	return app.runner
}

// Panel returns the terminal panel, or nil when Options.Panel is unset.
func (app *Application) Panel() *panel.Panel {
	return app.panel
}

// Metrics returns the run counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// SettingsPath returns the per-document settings file, or "" when the
// settings are not file-backed.
func (app *Application) SettingsPath() string {
	if f, ok := app.settings.(*store.File); ok {
		return f.Path()
	}
	return ""
}
