package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/duprank/internal/baseline"
	"github.com/garagon/duprank/internal/config"
)

func TestInitCreatesFiles(t *testing.T) {
	flagTOML = false
	dir := t.TempDir()

	err := runInit(nil, []string{dir})
	require.NoError(t, err)

	for _, name := range []string{
		".duprank.yml",
		filepath.Join(".github", "workflows", "duprank.yml"),
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
		require.NotEmpty(t, data, "expected %s to have content", name)
	}
}

func TestInitTemplateLoads(t *testing.T) {
	flagTOML = false
	dir := t.TempDir()
	require.NoError(t, runInit(nil, []string{dir}))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.Equal(t, "../../../", cfg.PrefixMarker)
	require.Equal(t, "asc", cfg.Order)
	require.Equal(t, []string{"vendor/**", "**/*_test.py"}, cfg.Ignore)

	data, err := os.ReadFile(filepath.Join(dir, ".duprank.yml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# baseline: "+baseline.DefaultFile)
	require.NotContains(t, string(data), "%!")
}

func TestInitTOML(t *testing.T) {
	flagTOML = true
	defer func() { flagTOML = false }()
	dir := t.TempDir()
	require.NoError(t, runInit(nil, []string{dir}))

	_, err := os.Stat(filepath.Join(dir, ".duprank.yml"))
	require.True(t, os.IsNotExist(err))

	cfg, err := config.LoadFile(filepath.Join(dir, ".duprank.toml"))
	require.NoError(t, err)
	require.Equal(t, "terminal", cfg.Format)
	require.Equal(t, []string{"vendor/**", "**/*_test.py"}, cfg.Ignore)

	data, err := os.ReadFile(filepath.Join(dir, ".duprank.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), `# baseline = "`+baseline.DefaultFile+`"`)
}

func TestInitSkipsExisting(t *testing.T) {
	flagTOML = false
	dir := t.TempDir()

	existing := filepath.Join(dir, ".duprank.yml")
	require.NoError(t, os.WriteFile(existing, []byte("order: desc\n"), 0644))

	require.NoError(t, runInit(nil, []string{dir}))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Equal(t, "order: desc\n", string(data))

	_, err = os.Stat(filepath.Join(dir, ".github", "workflows", "duprank.yml"))
	require.NoError(t, err)
}

func TestInitCreatesSubdirectory(t *testing.T) {
	flagTOML = false
	dir := filepath.Join(t.TempDir(), "subdir", "project")

	require.NoError(t, runInit(nil, []string{dir}))

	_, err := os.Stat(filepath.Join(dir, ".duprank.yml"))
	require.NoError(t, err)
}
