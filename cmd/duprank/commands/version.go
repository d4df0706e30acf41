package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garagon/duprank/internal/update"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var flagCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "duprank %s (commit: %s)\n", Version, Commit)
		if !flagCheck {
			return nil
		}
		return printUpdate(cmd, update.NewChecker())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

func printUpdate(cmd *cobra.Command, c *update.Checker) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := c.Check(ctx, Version)
	if err != nil {
		return err
	}
	if r.NeedsUpdate() {
		fmt.Fprintf(cmd.OutOrStdout(), "update available: %s\n  %s\n", r.Latest, r.Command())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "up to date (latest release %s)\n", r.Latest)
	}
	return nil
}
