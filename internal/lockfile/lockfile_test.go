package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db.lock")

	l, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())
	assert.FileExists(t, path)

	_, err = Acquire(path)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, l.Release())
	assert.NoFileExists(t, path)

	l2, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, l2.Release())
}

func TestAcquireClearsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.lock")
	// PIDs above the kernel's pid_max are never running.
	require.NoError(t, os.WriteFile(path, []byte("2147483646\n"), 0o644))

	l, err := Acquire(path)
	require.NoError(t, err)
	defer l.Release()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n")
	assert.NotContains(t, string(data), "2147483646")
}

func TestAcquireRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lock")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	_, err := Acquire(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PID")
}
