// Package lock keeps two watch drivers from serving the same package
// directory at once.
package lock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

// FileLock is a cross-process advisory lock on a file.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// PathFor returns the lock file for a package directory:
// <dataDir>/locks/<first 16 hex chars of sha256(abs dir)>.lock.
func PathFor(dataDir, pluginDir string) string {
	abs, err := filepath.Abs(pluginDir)
	if err != nil {
		abs = pluginDir
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(dataDir, "locks", hex.EncodeToString(sum[:])[:16]+".lock")
}

// New creates a lock at path. Nothing is touched until Lock or TryLock.
func New(path string) *FileLock {
	return &FileLock{
		path:  path,
		flock: flock.New(path),
	}
}

// ForPlugin creates the lock guarding pluginDir.
func ForPlugin(dataDir, pluginDir string) *FileLock {
	return New(PathFor(dataDir, pluginDir))
}

// RetryDelay is how often Lock retries a held lock.
const RetryDelay = 100 * time.Millisecond

// Lock blocks until the lock is acquired or ctx is done, in which case it
// returns ctx.Err().
func (l *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}
	ok, err := l.flock.TryLockContext(ctx, RetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return ctx.Err()
	}
	l.locked = true
	return nil
}

// TryLock acquires the lock without blocking. It reports false if another
// process holds it.
func (l *FileLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if acquired {
		l.locked = true
	}
	return acquired, nil
}

// Acquire is TryLock that turns contention into an ERR_204 error.
func (l *FileLock) Acquire(pluginDir string) error {
	ok, err := l.TryLock()
	if err != nil {
		return menuerrors.Wrap(menuerrors.ErrCodeLockHeld, err)
	}
	if !ok {
		return menuerrors.New(menuerrors.ErrCodeLockHeld,
			"another watcher is already running for "+pluginDir, nil).
			WithDetail("lock", l.path).
			WithSuggestion("Stop the other 'mavenmenu watch' process first")
	}
	return nil
}

// Unlock releases the lock. Safe to call when not locked.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// IsLocked reports whether this FileLock holds the lock.
func (l *FileLock) IsLocked() bool {
	return l.locked
}
