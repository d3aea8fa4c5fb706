// Package settings reads editor settings and notifies subscribers when a
// key changes.
package settings

import (
	"encoding/json"
	"sync"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

// Store is the settings surface the plugin driver depends on.
type Store interface {
	// Get decodes the value of key into out. It reports false, leaving out
	// untouched, when the key is not set.
	Get(key string, out any) (bool, error)

	// AddOnChange registers fn to run when key changes. Registrations for
	// the same key accumulate until ClearOnChange.
	AddOnChange(key string, fn func())

	// ClearOnChange removes every callback registered for key.
	ClearOnChange(key string)
}

// callbacks is the per-key subscription list shared by both stores.
type callbacks struct {
	mu  sync.Mutex
	fns map[string][]func()
}

func (c *callbacks) add(key string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fns == nil {
		c.fns = make(map[string][]func())
	}
	c.fns[key] = append(c.fns[key], fn)
}

func (c *callbacks) clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fns, key)
}

func (c *callbacks) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fns[key])
}

// fire runs the callbacks for key outside the lock so a callback may
// resubscribe.
func (c *callbacks) fire(key string) {
	c.mu.Lock()
	fns := append([]func(){}, c.fns[key]...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// decode unmarshals the raw value of key into out.
func decode(key string, raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return menuerrors.New(menuerrors.ErrCodeSettingsInvalid, "invalid value for setting "+key, err).
			WithDetail("key", key)
	}
	return nil
}
