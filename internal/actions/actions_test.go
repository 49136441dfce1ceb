package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.txt")
	dest := filepath.Join(tmp, "moved.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	require.NoError(t, Move(src, dest))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestMoveMissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := Move(filepath.Join(tmp, "gone.txt"), filepath.Join(tmp, "dest.txt"))
	require.Error(t, err)
}

func TestCopyLeavesSourceIntact(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.txt")
	dest := filepath.Join(tmp, "copy.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	require.NoError(t, Copy(src, dest))

	assert.FileExists(t, src)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestCopyRejectsNonRegularSource(t *testing.T) {
	tmp := t.TempDir()
	err := Copy(tmp, filepath.Join(tmp, "dest"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}
