package watcher

import (
	"sync"
	"time"
)

// Debouncer folds a burst of events for one file into a single event,
// emitted once no new event has arrived for the window:
//   - CREATE + MODIFY = CREATE
//   - CREATE + DELETE = nothing
//   - DELETE + CREATE = MODIFY (file was replaced)
//   - anything else keeps the latest operation
type Debouncer struct {
	window  time.Duration
	mu      sync.Mutex
	pending *Event
	first   Operation
	timer   *time.Timer
	output  chan Event
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		output: make(chan Event, 1),
	}
}

// Add records an event and restarts the window.
func (d *Debouncer) Add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.pending == nil {
		d.pending = &ev
		d.first = ev.Operation
	} else {
		d.pending = coalesce(d.first, ev)
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func coalesce(first Operation, next Event) *Event {
	switch {
	case first == OpCreate && next.Operation == OpModify:
		next.Operation = OpCreate
	case first == OpCreate && next.Operation == OpDelete:
		return nil
	case first == OpDelete && next.Operation == OpCreate:
		next.Operation = OpModify
	}
	return &next
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || d.pending == nil {
		return
	}
	ev := *d.pending
	d.pending = nil

	// An unread event already means "file changed"; dropping this one
	// loses nothing.
	select {
	case d.output <- ev:
	default:
	}
}

// Output returns the channel of debounced events.
func (d *Debouncer) Output() <-chan Event {
	return d.output
}

// Stop cancels any pending event and closes the output channel.
// Safe to call multiple times.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
