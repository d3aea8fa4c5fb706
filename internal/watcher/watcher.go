package watcher

import (
	"time"
)

// Operation is the kind of change observed on the watched file.
type Operation int

const (
	// OpCreate means the file appeared, or was replaced by a rename.
	OpCreate Operation = iota
	// OpModify means the file's contents changed.
	OpModify
	// OpDelete means the file was removed or renamed away.
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Event is one debounced change of the watched file.
type Event struct {
	Path      string
	Operation Operation
	Timestamp time.Time
}

// Options configures a FileWatcher.
type Options struct {
	// Debounce is the quiet period before a burst of events is emitted.
	// Default: 200ms
	Debounce time.Duration

	// PollInterval is the stat interval in polling mode.
	// Default: 2s
	PollInterval time.Duration

	// ForcePolling skips fsnotify entirely.
	ForcePolling bool

	// NoFallback makes Run fail when fsnotify cannot start instead of
	// polling.
	NoFallback bool
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		Debounce:     200 * time.Millisecond,
		PollInterval: 2 * time.Second,
	}
}

// WithDefaults fills zero values from DefaultOptions.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.Debounce <= 0 {
		o.Debounce = defaults.Debounce
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaults.PollInterval
	}
	return o
}
