package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/garagon/duprank/internal/baseline"
)

var flagTOML bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize duprank configuration files",
	Long:  `Scaffolds .duprank.yml (or .duprank.toml with --toml) and a GitHub Actions workflow that ranks a CPD report.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagTOML, "toml", false, "Write .duprank.toml instead of .duprank.yml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	configFile := struct {
		path    string
		content string
	}{filepath.Join(dir, ".duprank.yml"), fmt.Sprintf(yamlTemplate, baseline.DefaultFile)}
	if flagTOML {
		configFile.path = filepath.Join(dir, ".duprank.toml")
		configFile.content = fmt.Sprintf(tomlTemplate, baseline.DefaultFile)
	}

	files := []struct {
		path    string
		content string
	}{
		configFile,
		{
			path:    filepath.Join(dir, ".github", "workflows", "duprank.yml"),
			content: workflowTemplate,
		},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Printf("  skip %s (already exists)\n", f.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		fmt.Printf("  create %s\n", f.path)
	}

	return nil
}

const yamlTemplate = `# duprank configuration
# Flags override these values; DUPRANK_ROOT and DUPRANK_PREFIX_MARKER
# override them too.

# Directory the report paths are resolved against
# root: .

# Report paths are cut after the first occurrence of this marker
prefix_marker: "../../../"

# terminal, json, markdown, html, sarif or text
format: terminal

# asc (least duplicated first) or desc
order: asc

# Hide pairs whose larger ratio is below this value
min_ratio: 0

# Exit with code 1 when a first ratio reaches this value
# fail_above: 0.5

# Pairs touching these paths are hidden
ignore:
  - "vendor/**"
  - "**/*_test.py"

# Track ratio changes between runs
# baseline: %s
`

const tomlTemplate = `# duprank configuration
# Flags override these values; DUPRANK_ROOT and DUPRANK_PREFIX_MARKER
# override them too.

# root = "."
prefix_marker = "../../../"
format = "terminal"
order = "asc"
min_ratio = 0.0
# fail_above = 0.5
ignore = ["vendor/**", "**/*_test.py"]
# baseline = "%s"
`

const workflowTemplate = `name: duprank

on:
  pull_request:
  push:
    branches: [main]

jobs:
  duplication:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4

      - uses: actions/setup-go@v5
        with:
          go-version: stable

      - name: Install duprank
        run: go install github.com/garagon/duprank/cmd/duprank@latest

      - name: Run CPD
        run: |
          curl -sSL -o pmd.zip https://github.com/pmd/pmd/releases/download/pmd_releases%2F7.0.0/pmd-dist-7.0.0-bin.zip
          unzip -q pmd.zip
          pmd-bin-7.0.0/bin/pmd cpd --minimum-tokens 100 --dir . --format xml > cpd.xml || true

      - name: Rank duplication
        run: duprank rank cpd.xml . --prefix-marker "$GITHUB_WORKSPACE/" --format markdown >> "$GITHUB_STEP_SUMMARY"
`
