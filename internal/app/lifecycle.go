package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"time"

	"github.com/dshills/scriptmarks/internal/loop"
	"github.com/dshills/scriptmarks/internal/plugin"
	"github.com/dshills/scriptmarks/internal/session"
	"github.com/dshills/scriptmarks/internal/store"
	"github.com/dshills/scriptmarks/internal/watch"
)

// shutdownTimeout bounds the final session close on the loop.
const shutdownTimeout = 2 * time.Second

// Start runs the loop, performs the first scan and runs the scripts in
// the configured scripts directory. Script failures are logged and
// reported as notices; they do not fail Start.
func (app *Application) Start(ctx context.Context) error {
	if app.shutdown.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go func() {
		defer close(app.loopDone)
		if err := app.loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, loop.ErrStopped) {
			app.logger.Error("loop stopped: %v", err)
		}
	}()

	if app.watcher != nil {
		go func() {
			if err := app.watcher.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, watch.ErrWatcherClosed) {
				app.logger.Warn("watcher stopped: %v", err)
			}
		}()
	}

	if err := app.Do(ctx, func(s *session.Session) error {
		s.Start()
		return nil
	}); err != nil {
		return err
	}

	if dir := app.cfg.Scripts.Dir; dir != "" {
		scripts, err := plugin.Discover(dir)
		if err != nil {
			app.logger.Warn("scripts in %s: %v", dir, err)
		}
		paths := make([]string, 0, len(scripts))
		for _, s := range scripts {
			paths = append(paths, s.Path)
		}
		_ = app.RunScripts(ctx, paths...)
	}
	return nil
}

// Do runs fn with the session on the loop and waits for it.
func (app *Application) Do(ctx context.Context, fn func(s *session.Session) error) error {
	if app.shutdown.Load() {
		return ErrShutdown
	}

	done := make(chan error, 1)
	app.loop.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &RecoveredPanicError{Value: r}
			}
		}()
		done <- fn(app.session)
	})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-app.loopDone:
		return ErrShutdown
	}
}

// RunScripts runs each script file on the loop, in order. A failing script
// is reported as a notice and does not stop the rest.
func (app *Application) RunScripts(ctx context.Context, paths ...string) error {
	var errs []error
	for _, path := range paths {
		path := path
		err := app.Do(ctx, func(*session.Session) error {
			return app.runner.RunFile(ctx, path)
		})
		app.metrics.RecordScript(err)
		if err != nil {
			app.host.Notify("Script failed", err.Error())
			errs = append(errs, err)
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrShutdown) {
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until the user quits the panel or ctx is done. Without a
// panel it returns at once unless the application is watching files.
func (app *Application) Wait(ctx context.Context) error {
	switch {
	case app.panel != nil:
		err := app.panel.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case app.watcher != nil:
		select {
		case <-ctx.Done():
		case <-app.loopDone:
		}
	}
	return nil
}

// Run is Start followed by Wait.
func (app *Application) Run(ctx context.Context) error {
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Wait(ctx)
}

// Save writes the document and the notepad back to disk when they differ
// from the file contents. It reports whether anything was written.
func (app *Application) Save() (bool, error) {
	wrote := false

	changed, err := differs(app.opts.DocumentPath, app.buf.Text())
	if err != nil {
		return false, &ComponentError{Component: "document", Action: "save", Err: err}
	}
	if changed {
		if err := app.buf.Save(app.opts.DocumentPath); err != nil {
			return false, &ComponentError{Component: "document", Action: "save", Err: err}
		}
		app.metrics.RecordSave()
		app.logger.Info("saved %s", app.opts.DocumentPath)
		wrote = true
	}

	if app.opts.NotepadPath == "" {
		return wrote, nil
	}
	notepad := app.buf.Notepad()
	changed, err = differs(app.opts.NotepadPath, notepad)
	if err != nil {
		return wrote, &ComponentError{Component: "notepad", Action: "save", Err: err}
	}
	if changed {
		if err := store.WriteFileAtomic(app.opts.NotepadPath, []byte(notepad)); err != nil {
			return wrote, &ComponentError{Component: "notepad", Action: "save", Err: err}
		}
		app.metrics.RecordSave()
		app.logger.Info("saved %s", app.opts.NotepadPath)
		wrote = true
	}
	return wrote, nil
}

// differs reports whether path holds something other than content. A
// missing file differs unless content is empty.
func differs(path, content string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return content != "", nil
		}
		return false, err
	}
	return !bytes.Equal(data, []byte(content)), nil
}

// Shutdown closes the session, stops the watcher and the loop and restores
// the terminal. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdownMu.Do(func() {
		if app.running.Load() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := app.Do(ctx, func(s *session.Session) error {
				s.Close()
				return nil
			}); err != nil {
				app.logger.Warn("closing session: %v", err)
			}
			cancel()
		}
		app.shutdown.Store(true)

		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if app.panel != nil {
			app.panel.Quit()
		}
		if app.screen != nil {
			app.screen.Fini()
		}

		if app.cancel != nil {
			app.cancel()
			<-app.loopDone
		}
		app.loop.Stop()

		app.logger.Info("shutdown: %s", app.metrics.Snapshot())
	})
}
