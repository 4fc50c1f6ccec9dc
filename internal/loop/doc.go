// Package loop provides the single-threaded event loop every session runs on.
//
// A Loop drains a FIFO of tasks on one goroutine. Timers and debounced tasks
// never run on their own goroutines: when they fire they post into the
// queue, so code running on the loop can share state without locks.
//
// Debounce is trailing-edge: scheduling a key replaces any task still
// pending under that key, so a burst of change notifications produces one
// run after the last quiet period.
//
// Manual implements the same Scheduler interface with a virtual clock for
// deterministic tests.
package loop
