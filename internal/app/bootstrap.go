package app

import (
	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/panel"
	"github.com/dshills/scriptmarks/internal/plugin"
	"github.com/dshills/scriptmarks/internal/session"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/watch"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, initOrder: make([]string, 0, 8)}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"document", b.initDocument},
		{"store", b.initStores},
		{"loop", b.initLoop},
		{"session", b.initSession},
		{"plugin", b.initScripts},
		{"watcher", b.initWatcher},
		{"panel", b.initPanel},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			b.cleanup()
			return err
		}
		b.initOrder = append(b.initOrder, s.name)
	}
	return nil
}

func (b *bootstrapper) initDocument() error {
	app := b.app
	buf, err := host.LoadBuffer(app.opts.DocumentPath, app.opts.NotepadPath)
	if err != nil {
		return &ComponentError{Component: "document", Action: "load", Err: err}
	}
	app.buf = buf
	app.host = newNoticeHost(buf, app.opts.Logger)
	return nil
}

func (b *bootstrapper) initStores() error {
	app := b.app
	dataDir := app.cfg.Paths.DataDir

	defaults, err := store.OpenFile(store.UserDefaultsPath(dataDir), app.opts.Logger)
	if err != nil {
		return &ComponentError{Component: "store", Action: "open defaults", Err: err}
	}

	path, err := store.DocumentPath(dataDir, app.opts.DocumentPath)
	if err != nil {
		return &ComponentError{Component: "store", Action: "locate settings", Err: err}
	}
	settings, err := store.OpenFile(path, app.opts.Logger)
	if err != nil {
		return &ComponentError{Component: "store", Action: "open settings", Err: err}
	}

	app.defaults = defaults
	app.settings = settings
	app.logger.Debug("settings at %s", path)
	return nil
}

func (b *bootstrapper) initLoop() error {
	b.app.loop = loop.New(b.app.opts.Logger)
	return nil
}

func (b *bootstrapper) initSession() error {
	app := b.app
	app.session = session.New(app.host, session.Options{
		Config:    app.cfg,
		Defaults:  app.defaults,
		Settings:  app.settings,
		Scheduler: app.loop,
		Logger:    app.opts.Logger,
		Now:       app.opts.Now,
	})

	// Listeners run on whichever goroutine edited the buffer; the session
	// only ever sees the change on the loop.
	app.buf.OnChange(func(c host.Change) {
		app.metrics.RecordChange()
		app.loop.Post(func() {
			switch c {
			case host.TextChanged:
				app.session.TextChanged()
			case host.NotepadChanged:
				app.session.NotepadChanged()
			}
		})
	})
	app.session.OnRefresh(app.metrics.RecordRefresh)
	return nil
}

func (b *bootstrapper) initScripts() error {
	app := b.app
	app.runner = plugin.NewRunner(app.session, plugin.Options{
		Timeout: app.cfg.Scripts.Timeout.Std(),
		Output:  app.opts.ScriptOutput,
		Logger:  app.opts.Logger,
	})
	return nil
}

func (b *bootstrapper) initWatcher() error {
	app := b.app
	if !app.opts.Watch {
		return nil
	}
	w, err := watch.New(app.buf, app.loop, app.opts.DocumentPath, app.opts.NotepadPath, watch.Options{
		Logger: app.opts.Logger,
	})
	if err != nil {
		return &ComponentError{Component: "watcher", Action: "start", Err: err}
	}
	app.watcher = w
	return nil
}

func (b *bootstrapper) initPanel() error {
	app := b.app
	if !app.opts.Panel {
		return nil
	}

	screen := app.opts.Screen
	if screen == nil {
		var err error
		screen, err = panel.OpenScreen()
		if err != nil {
			return &ComponentError{Component: "panel", Action: "open screen", Err: err}
		}
	}

	app.screen = screen
	app.panel = panel.New(screen, app.session, app.loop, app.opts.Logger)
	app.host.setNotifier(app.panel.Notify)
	app.session.OnRefresh(app.panel.Redraw)
	return nil
}

// cleanup releases components in reverse order of initialization.
func (b *bootstrapper) cleanup() {
	app := b.app
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			if app.watcher != nil {
				_ = app.watcher.Close()
			}
		case "panel":
			if app.screen != nil {
				app.screen.Fini()
			}
		case "loop":
			app.loop.Stop()
		}
	}
}
