package loop

import (
	"sort"
	"time"
)

// Manual is a Scheduler driven by a virtual clock. Nothing runs until
// Advance or RunPending is called, which makes timing behaviour testable
// without sleeping.
type Manual struct {
	now      time.Duration
	seq      uint64
	tasks    []*manualTask
	debounce map[string]*manualTask
}

type manualTask struct {
	due       time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	ran       bool
}

func (t *manualTask) Stop() bool {
	if t.cancelled || t.ran {
		return false
	}
	t.cancelled = true
	return true
}

// NewManual creates a manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{debounce: make(map[string]*manualTask)}
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) schedule(d time.Duration, fn func()) *manualTask {
	m.seq++
	t := &manualTask{due: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Post queues fn at the current virtual time.
func (m *Manual) Post(fn func()) {
	m.schedule(0, fn)
}

// After queues fn at now+d.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	return m.schedule(d, fn)
}

// Debounce queues fn at now+d, cancelling the task pending under key.
func (m *Manual) Debounce(key string, d time.Duration, fn func()) {
	if prev, ok := m.debounce[key]; ok {
		prev.cancelled = true
	}
	var t *manualTask
	t = m.schedule(d, func() {
		if m.debounce[key] == t {
			delete(m.debounce, key)
		}
		fn()
	})
	m.debounce[key] = t
}

// CancelDebounce drops the task pending under key.
func (m *Manual) CancelDebounce(key string) {
	if t, ok := m.debounce[key]; ok {
		t.cancelled = true
		delete(m.debounce, key)
	}
}

// Advance moves the clock forward by d, running every task that falls due
// in order of due time, then scheduling order. Tasks scheduled by running
// tasks are included if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.due
		t.ran = true
		t.fn()
	}
	m.now = target
}

// RunPending runs every task due at the current time.
func (m *Manual) RunPending() {
	m.Advance(0)
}

// Pending returns the number of tasks waiting to run.
func (m *Manual) Pending() int {
	m.compact()
	return len(m.tasks)
}

func (m *Manual) nextDue(target time.Duration) *manualTask {
	m.compact()
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	t := m.tasks[0]
	if t.due > target {
		return nil
	}
	m.tasks = m.tasks[1:]
	return t
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled && !t.ran {
			live = append(live, t)
		}
	}
	m.tasks = live
}

var _ Scheduler = (*Manual)(nil)
