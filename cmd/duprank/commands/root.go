package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	flagFormat  string
	flagOutput  string
	flagNoColor bool
	flagConfig  string
)

// errThresholdExceeded is returned when --fail-above trips. It maps to exit
// code 1; every other error maps to 2.
var errThresholdExceeded = errors.New("duplication ratio threshold exceeded")

var rootCmd = &cobra.Command{
	Use:          "duprank",
	Short:        "Rank duplicated file pairs from a CPD report",
	Long:         `duprank reads a PMD CPD duplication report and ranks every reported file pair by the share of each file that the duplication covers.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "terminal", "Output format (terminal, json, markdown, html, sarif, text)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: .duprank.yml, .duprank.yaml or .duprank.toml in the working directory)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errThresholdExceeded):
		return 1
	default:
		return 2
	}
}
