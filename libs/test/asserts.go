package test

import (
	"io/fs"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertDirAccess checks path is a directory only its owner can access.
func AssertDirAccess(t *testing.T, path string) {
	t.Helper()
	stats, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, stats.IsDir())
	assertPerm(t, stats, 0o777, 0o700)
}

// AssertFileAccess checks path is a regular file only its owner can read.
func AssertFileAccess(t *testing.T, path string) {
	t.Helper()
	stats, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, stats.IsDir())
	assertPerm(t, stats, 0o666, 0o600)
}

// AssertFileContent checks the file at path holds exactly expected.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected, string(buf))
}

// windows has no owner only permission bits.
func assertPerm(t *testing.T, stats fs.FileInfo, windows, other fs.FileMode) {
	t.Helper()
	if runtime.GOOS == "windows" {
		assert.Equal(t, windows, stats.Mode().Perm())
		return
	}
	assert.Equal(t, other, stats.Mode().Perm())
}
