package lock

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

func TestPathFor(t *testing.T) {
	data := t.TempDir()

	a := PathFor(data, "/pkg/Maven")
	b := PathFor(data, "/pkg/Maven")
	c := PathFor(data, "/pkg/Other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, filepath.Join(data, "locks"), filepath.Dir(a))
	assert.True(t, strings.HasSuffix(a, ".lock"))
	assert.Len(t, strings.TrimSuffix(filepath.Base(a), ".lock"), 16)
}

func TestFileLock_LockUnlock(t *testing.T) {
	l := ForPlugin(t.TempDir(), "/pkg/Maven")

	require.NoError(t, l.Lock(context.Background()))
	assert.True(t, l.IsLocked())
	assert.FileExists(t, l.Path())

	require.NoError(t, l.Unlock())
	assert.False(t, l.IsLocked())
	require.NoError(t, l.Unlock())
}

func TestFileLock_Contention(t *testing.T) {
	// Given: one holder
	data := t.TempDir()
	first := ForPlugin(data, "/pkg/Maven")
	require.NoError(t, first.Acquire("/pkg/Maven"))
	defer first.Unlock()

	// When: a second lock on the same directory tries
	second := ForPlugin(data, "/pkg/Maven")
	err := second.Acquire("/pkg/Maven")

	// Then
	require.Error(t, err)
	assert.Equal(t, menuerrors.ErrCodeLockHeld, menuerrors.GetCode(err))
	assert.False(t, second.IsLocked())

	// And: once released it can be taken
	require.NoError(t, first.Unlock())
	ok, err := second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestFileLock_DifferentPluginsDoNotConflict(t *testing.T) {
	data := t.TempDir()
	a := ForPlugin(data, "/pkg/A")
	b := ForPlugin(data, "/pkg/B")

	require.NoError(t, a.Acquire("/pkg/A"))
	defer a.Unlock()
	require.NoError(t, b.Acquire("/pkg/B"))
	defer b.Unlock()
}

func TestFileLock_LockWaitsForRelease(t *testing.T) {
	// Given: one holder
	data := t.TempDir()
	first := ForPlugin(data, "/pkg/Maven")
	require.NoError(t, first.Acquire("/pkg/Maven"))

	// When: a second lock waits and the first is released
	second := ForPlugin(data, "/pkg/Maven")
	done := make(chan error, 1)
	go func() { done <- second.Lock(context.Background()) }()

	time.Sleep(2 * RetryDelay)
	require.NoError(t, first.Unlock())

	// Then
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Lock did not return after release")
	}
	assert.True(t, second.IsLocked())
	require.NoError(t, second.Unlock())
}

func TestFileLock_LockStopsOnCancel(t *testing.T) {
	data := t.TempDir()
	first := ForPlugin(data, "/pkg/Maven")
	require.NoError(t, first.Acquire("/pkg/Maven"))
	defer first.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*RetryDelay)
	defer cancel()

	second := ForPlugin(data, "/pkg/Maven")
	err := second.Lock(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, second.IsLocked())
}
