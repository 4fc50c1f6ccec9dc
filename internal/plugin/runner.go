package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/plugin/api"
	"github.com/dshills/scriptmarks/internal/plugin/lua"
)

// Options configures a Runner.
type Options struct {
	// Timeout bounds each run. Zero means lua.DefaultTimeout.
	Timeout time.Duration
	// Output receives print output. Nil discards it.
	Output io.Writer
	Logger *logging.Logger
}

// Runner executes scripts against one session.
//
// Session methods are loop-only, so RunFile and RunString must be called on
// the session's loop goroutine.
type Runner struct {
	registry *api.Registry
	opts     Options
	logger   *logging.Logger
}

// NewRunner creates a runner whose scripts see s through the sm modules.
func NewRunner(s api.Session, opts Options) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = lua.DefaultTimeout
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	return &Runner{
		registry: api.DefaultRegistry(s),
		opts:     opts,
		logger:   opts.Logger.WithComponent("plugin"),
	}
}

// Registry returns the modules installed into each run.
func (r *Runner) Registry() *api.Registry {
	return r.registry
}

func (r *Runner) newState() (*lua.State, error) {
	state, err := lua.NewState(
		lua.WithTimeout(r.opts.Timeout),
		lua.WithOutput(r.opts.Output),
	)
	if err != nil {
		return nil, err
	}
	r.registry.Install(state)
	return state, nil
}

// RunFile runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	if err := checkScript(path); err != nil {
		return err
	}
	state, err := r.newState()
	if err != nil {
		return err
	}
	defer state.Close()

	start := time.Now()
	err = state.DoFile(ctx, path)
	r.logResult(path, start, err)
	return err
}

// RunString runs code under name.
func (r *Runner) RunString(ctx context.Context, name, code string) error {
	state, err := r.newState()
	if err != nil {
		return err
	}
	defer state.Close()

	start := time.Now()
	err = state.DoString(ctx, code)
	r.logResult(name, start, err)
	return err
}

// RunDir runs every script in dir in name order. A failing script is
// logged and does not stop the others; the failures are joined.
func (r *Runner) RunDir(ctx context.Context, dir string) error {
	scripts, err := Discover(dir)
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RunFile(ctx, s.Path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) logResult(name string, start time.Time, err error) {
	if err != nil {
		r.logger.Warn("script %s failed: %v", name, err)
		return
	}
	r.logger.Debug("script %s finished in %s", name, time.Since(start))
}
