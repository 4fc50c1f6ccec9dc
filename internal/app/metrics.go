package app

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics counts what the application did during a run.
type Metrics struct {
	changes        atomic.Uint64
	refreshes      atomic.Uint64
	scripts        atomic.Uint64
	scriptFailures atomic.Uint64
	saves          atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordChange records a text or notepad change notification.
func (m *Metrics) RecordChange() { m.changes.Add(1) }

// RecordRefresh records a completed rescan.
func (m *Metrics) RecordRefresh() { m.refreshes.Add(1) }

// RecordScript records one script run.
func (m *Metrics) RecordScript(err error) {
	m.scripts.Add(1)
	if err != nil {
		m.scriptFailures.Add(1)
	}
}

// RecordSave records a write of the document or notepad.
func (m *Metrics) RecordSave() { m.saves.Add(1) }

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Changes        uint64
	Refreshes      uint64
	Scripts        uint64
	ScriptFailures uint64
	Saves          uint64
	Uptime         time.Duration
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Changes:        m.changes.Load(),
		Refreshes:      m.refreshes.Load(),
		Scripts:        m.scripts.Load(),
		ScriptFailures: m.scriptFailures.Load(),
		Saves:          m.saves.Load(),
		Uptime:         time.Since(m.startTime),
	}
}

func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("changes=%d refreshes=%d scripts=%d failed=%d saves=%d uptime=%s",
		s.Changes, s.Refreshes, s.Scripts, s.ScriptFailures, s.Saves, s.Uptime.Round(time.Millisecond))
}
