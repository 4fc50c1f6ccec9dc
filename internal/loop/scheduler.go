package loop

import "time"

// Scheduler queues work onto a single logical thread.
type Scheduler interface {
	// Post queues fn to run as soon as possible.
	Post(fn func())

	// After queues fn to run once d has elapsed.
	After(d time.Duration, fn func()) Timer

	// Debounce queues fn to run once d has elapsed, replacing any task
	// still pending under key.
	Debounce(key string, d time.Duration, fn func())

	// CancelDebounce drops the task pending under key, if any.
	CancelDebounce(key string)
}

// Timer is a handle to a task scheduled with After.
type Timer interface {
	// Stop prevents the task from running. It returns false if the task
	// already ran or was already stopped.
	Stop() bool
}
