package baseline

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/garagon/duprank/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(r1, r2 float64, a, b string) types.Ratio {
	return types.Ratio{Ratio1: r1, File1Path: a, File1Line: 1, Ratio2: r2, File2Path: b, File2Line: 1}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")

	s := New(path)
	s.Replace("01HZX", []types.Ratio{pair(0.1, 0.2, "a.py", "b.py"), pair(0.5, 0.25, "c.py", "d.py")})
	require.NoError(t, s.Save())

	s2 := New(path)
	require.NoError(t, s2.Load())
	assert.Equal(t, "01HZX", s2.RunID)

	e, ok := s2.Entries["a.py:1|b.py:1"]
	assert.True(t, ok)
	assert.Equal(t, 0.1, e.Ratio1)
	assert.Equal(t, 0.2, e.Ratio2)
	assert.NotEmpty(t, e.UpdatedAt)

	_, ok = s2.Entries["nonexistent"]
	assert.False(t, ok)
}

func TestStoreLoadNonexistent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, s.Load())
	assert.Empty(t, s.Entries)
}

func TestStoreLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := New(path).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}

func TestStoreCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "deep", "baseline.json")

	s := New(path)
	s.Replace("", []types.Ratio{pair(0.1, 0.1, "a", "b")})
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestStoreRejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	require.NoError(t, os.WriteFile(target, []byte(`{"entries":{}}`), 0o600))
	link := filepath.Join(dir, "baseline.json")
	require.NoError(t, os.Symlink(target, link))

	s := New(link)
	require.Error(t, s.Load())
	require.Error(t, s.Save())
}

func TestAnnotate(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "baseline.json"))
	s.Replace("prev", []types.Ratio{pair(0.1, 0.4, "a.py", "b.py")})

	current := []types.Ratio{pair(0.3, 0.2, "a.py", "b.py"), pair(0.5, 0.5, "new.py", "b.py")}
	annotated := s.Annotate(current)
	require.Len(t, annotated, 2)

	require.NotNil(t, annotated[0].Delta1)
	assert.Equal(t, 0.2, *annotated[0].Delta1)
	assert.Equal(t, -0.2, *annotated[0].Delta2)
	assert.Nil(t, annotated[1].Delta1)
	assert.Nil(t, annotated[1].Delta2)

	// Input is untouched.
	assert.Nil(t, current[0].Delta1)
}

func TestReplaceDropsStalePairs(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "baseline.json"))
	s.Replace("one", []types.Ratio{pair(0.1, 0.1, "old.py", "b.py")})
	s.Replace("two", []types.Ratio{pair(0.2, 0.2, "a.py", "b.py")})

	_, ok := s.Entries["old.py:1|b.py:1"]
	assert.False(t, ok)
	assert.Len(t, s.Entries, 1)
	assert.Equal(t, "two", s.RunID)
}
