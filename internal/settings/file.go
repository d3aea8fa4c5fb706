package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/tailscale/hujson"
	"golang.org/x/sync/errgroup"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/watcher"
)

// File is a Store backed by a .sublime-settings file: a JSON object that may
// carry comments and trailing commas. A missing file reads as empty.
type File struct {
	path   string
	mu     sync.RWMutex
	values map[string]json.RawMessage
	subs   callbacks
	logger *slog.Logger
}

// OpenFile loads the settings file at path.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &File{
		path:   path,
		values: map[string]json.RawMessage{},
		logger: logger,
	}
	if _, err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the settings file path.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(key string, out any) (bool, error) {
	f.mu.RLock()
	raw, ok := f.values[key]
	f.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, raw, out)
}

// AddOnChange implements Store.
func (f *File) AddOnChange(key string, fn func()) {
	f.subs.add(key, fn)
}

// ClearOnChange implements Store.
func (f *File) ClearOnChange(key string) {
	f.subs.clear(key)
}

// Reload re-reads the file and returns the keys whose value changed,
// including keys that were added or removed. On a parse error the previous
// values are kept.
func (f *File) Reload() ([]string, error) {
	next, err := parseFile(f.path)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	prev := f.values
	f.values = next
	f.mu.Unlock()

	var changed []string
	for k, v := range next {
		if old, ok := prev[k]; !ok || !bytes.Equal(old, v) {
			changed = append(changed, k)
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			changed = append(changed, k)
		}
	}
	return changed, nil
}

func parseFile(path string) (map[string]json.RawMessage, error) {
	values := map[string]json.RawMessage{}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, menuerrors.New(menuerrors.ErrCodeFileNotFound, "failed to read settings "+path, err).
			WithDetail("path", path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, invalidSettings(path, err)
	}
	if err := json.Unmarshal(std, &values); err != nil {
		return nil, invalidSettings(path, err)
	}

	// Compact so formatting-only edits do not count as changes.
	for k, v := range values {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, invalidSettings(path, err)
		}
		values[k] = buf.Bytes()
	}
	return values, nil
}

func invalidSettings(path string, err error) error {
	return menuerrors.New(menuerrors.ErrCodeSettingsInvalid, "failed to parse settings "+path, err).
		WithDetail("path", path).
		WithSuggestion("Fix the JSON syntax of the settings file")
}

// Watch reloads the file whenever it changes and runs the callbacks of
// every changed key. It blocks until ctx is cancelled.
func (f *File) Watch(ctx context.Context, opts watcher.Options) error {
	w := watcher.New(f.path, opts)
	w.SetLogger(f.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		for ev := range w.Events() {
			changed, err := f.Reload()
			if err != nil {
				f.logger.Warn("settings reload failed, keeping previous values",
					slog.String("path", f.path),
					slog.String("error", err.Error()))
				continue
			}
			f.logger.Debug("settings reloaded",
				slog.String("op", ev.Operation.String()),
				slog.Any("changed", changed))
			for _, key := range changed {
				f.subs.fire(key)
			}
		}
		return nil
	})
	return g.Wait()
}
