package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

// Watcher modes reported by FileWatcher.Mode.
const (
	ModeFsnotify = "fsnotify"
	ModePolling  = "polling"
)

// FileWatcher watches one file for changes.
type FileWatcher struct {
	path   string
	opts   Options
	events chan Event
	mode   atomic.Value
	logger *slog.Logger
}

// New creates a watcher for path. Nothing is watched until Run.
func New(path string, opts Options) *FileWatcher {
	w := &FileWatcher{
		path:   filepath.Clean(path),
		opts:   opts.WithDefaults(),
		events: make(chan Event, 1),
		logger: slog.Default(),
	}
	w.mode.Store("")
	return w
}

// SetLogger replaces the logger. Call before Run.
func (w *FileWatcher) SetLogger(l *slog.Logger) {
	if l != nil {
		w.logger = l
	}
}

// Events returns the debounced change events. The channel is closed when
// Run returns.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

// Mode returns ModeFsnotify or ModePolling once Run has started.
func (w *FileWatcher) Mode() string {
	return w.mode.Load().(string)
}

// Run watches until ctx is cancelled and returns ctx.Err(). With NoFallback
// set, an fsnotify watcher that cannot start is an ERR_205 error instead of
// a switch to polling.
func (w *FileWatcher) Run(ctx context.Context) error {
	d := NewDebouncer(w.opts.Debounce)
	stop := make(chan struct{})
	forwarded := make(chan struct{})

	go func() {
		defer close(forwarded)
		for ev := range d.Output() {
			select {
			case w.events <- ev:
			case <-stop:
				return
			}
		}
	}()
	defer func() {
		d.Stop()
		close(stop)
		<-forwarded
		close(w.events)
	}()

	if !w.opts.ForcePolling {
		fsw, err := w.newFsnotify()
		if err == nil {
			defer func() { _ = fsw.Close() }()
			w.mode.Store(ModeFsnotify)
			return w.runFsnotify(ctx, fsw, d)
		}
		if w.opts.NoFallback {
			return menuerrors.New(menuerrors.ErrCodeWatchFailed, "cannot watch "+w.path, err).
				WithDetail("path", w.path).
				WithSuggestion("Set watch.mode to auto or polling")
		}
		w.logger.Warn("fsnotify unavailable, falling back to polling",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
	}

	w.mode.Store(ModePolling)
	return w.runPolling(ctx, d)
}

func (w *FileWatcher) newFsnotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	return fsw, nil
}

func (w *FileWatcher) runFsnotify(ctx context.Context, fsw *fsnotify.Watcher, d *Debouncer) error {
	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			op, ok := translate(event.Op)
			if !ok {
				continue
			}
			d.Add(Event{Path: w.path, Operation: op, Timestamp: time.Now()})
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error",
				slog.String("path", w.path),
				slog.String("error", err.Error()))
		}
	}
}

func translate(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpModify, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpDelete, true
	default:
		return 0, false
	}
}

type snapshot struct {
	exists  bool
	size    int64
	modTime time.Time
}

func (s snapshot) same(o snapshot) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

func stat(path string) snapshot {
	info, err := os.Stat(path)
	if err != nil {
		return snapshot{}
	}
	return snapshot{exists: true, size: info.Size(), modTime: info.ModTime()}
}

func (w *FileWatcher) runPolling(ctx context.Context, d *Debouncer) error {
	prev := stat(w.path)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cur := stat(w.path)
			var op Operation
			switch {
			case cur.same(prev):
				continue
			case !prev.exists:
				op = OpCreate
			case !cur.exists:
				op = OpDelete
			default:
				op = OpModify
			}
			prev = cur
			d.Add(Event{Path: w.path, Operation: op, Timestamp: time.Now()})
		}
	}
}
