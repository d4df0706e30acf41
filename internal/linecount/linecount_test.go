package linecount_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garagon/duprank/internal/linecount"
	"github.com/garagon/duprank/internal/types"
	"github.com/stretchr/testify/require"
)

func TestCountReader(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single unterminated", "one", 1},
		{"single terminated", "one\n", 1},
		{"two unterminated", "one\ntwo", 2},
		{"two terminated", "one\ntwo\n", 2},
		{"blank lines", "\n\n\n", 3},
		{"crlf", "a\r\nb\r\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := linecount.CountReader(strings.NewReader(tt.content))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCountReaderLargeInput(t *testing.T) {
	// Spans several read chunks.
	content := strings.Repeat("0123456789abcdef\n", 10000) + "tail"
	got, err := linecount.CountReader(strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, 10001, got)
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n\nprint(os.getcwd())\n"), 0644))

	n, err := linecount.Count(path)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestCountMissingFile(t *testing.T) {
	_, err := linecount.Count(filepath.Join(t.TempDir(), "missing.py"))
	require.ErrorIs(t, err, types.ErrFileNotFound)
}

func TestCountDirectory(t *testing.T) {
	_, err := linecount.Count(t.TempDir())
	require.ErrorIs(t, err, types.ErrFileUnreadable)
}

func TestCounterCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	c := linecount.NewCounter(0)
	n, err := c.Count(path)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Later edits are invisible within the same run.
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\n"), 0644))
	n, err = c.Count(path)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	hits, misses := c.Stats()
	require.Equal(t, 1, hits)
	require.Equal(t, 1, misses)
}

func TestCounterDoesNotCacheErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.py")

	c := linecount.NewCounter(8)
	_, err := c.Count(path)
	require.ErrorIs(t, err, types.ErrFileNotFound)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	n, err := c.Count(path)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
