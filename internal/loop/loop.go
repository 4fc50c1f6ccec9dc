package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/scriptmarks/internal/logging"
)

// ErrStopped is returned by Run when the loop was stopped with Stop.
var ErrStopped = errors.New("loop stopped")

// Loop is a Scheduler backed by a goroutine draining a task queue.
//
// Post, After, Debounce and CancelDebounce are safe to call from any
// goroutine. Tasks themselves always run on the goroutine executing Run.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	debounce map[string]*debounced
	seq      uint64
	logger   *logging.Logger
}

type debounced struct {
	seq   uint64
	timer *time.Timer
	fn    func()
}

// New creates a loop. A nil logger discards output.
func New(logger *logging.Logger) *Loop {
	if logger == nil {
		logger = logging.Null()
	}
	return &Loop{
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		debounce: make(map[string]*debounced),
		logger:   logger.WithComponent("loop"),
	}
}

// Post queues fn.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

type timer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *timer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.t.Stop()
	return true
}

// After queues fn once d has elapsed. Stopping the returned Timer also
// cancels a task that already fired but has not run yet.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

// Debounce queues fn once d has elapsed, replacing any pending task for key.
func (l *Loop) Debounce(key string, d time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.debounce[key]; ok {
		prev.timer.Stop()
	}

	l.seq++
	entry := &debounced{seq: l.seq, fn: fn}
	current := entry.seq
	entry.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if l.takeDebounced(key, current) {
				fn()
			}
		})
	})
	l.debounce[key] = entry
}

// takeDebounced removes the entry for key if it is still the one scheduled
// with seq, reporting whether the caller should run it.
func (l *Loop) takeDebounced(key string, seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.debounce[key]
	if !ok || entry.seq != seq {
		return false
	}
	delete(l.debounce, key)
	return true
}

// CancelDebounce drops the task pending under key.
func (l *Loop) CancelDebounce(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, ok := l.debounce[key]; ok {
		entry.timer.Stop()
		delete(l.debounce, key)
	}
}

// FlushDebounce runs the task pending under key now, on the loop, instead
// of waiting for its delay.
func (l *Loop) FlushDebounce(key string) {
	l.mu.Lock()
	entry, ok := l.debounce[key]
	if ok {
		entry.timer.Stop()
	}
	l.mu.Unlock()

	if !ok {
		return
	}
	seq := entry.seq
	l.Post(func() {
		if l.takeDebounced(key, seq) {
			entry.fn()
		}
	})
}

// Pending reports whether a debounced task is waiting under key.
func (l *Loop) Pending(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.debounce[key]
	return ok
}

// Run drains the queue until ctx is cancelled or Stop is called. A task
// that panics is logged and skipped; the loop keeps running.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			fn := l.pop()
			if fn == nil {
				break
			}
			l.runTask(fn)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrStopped
		case <-l.wake:
		}
	}
}

// Stop makes Run return. Pending tasks are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked: %v", fmt.Sprint(r))
		}
	}()
	fn()
}

var _ Scheduler = (*Loop)(nil)
