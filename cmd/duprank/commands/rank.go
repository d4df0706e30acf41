package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garagon/duprank/internal/baseline"
	"github.com/garagon/duprank/internal/config"
	"github.com/garagon/duprank/internal/output"
	"github.com/garagon/duprank/internal/pipeline"
	"github.com/garagon/duprank/internal/types"
)

var (
	flagPrefixMarker string
	flagWorkers      int
	flagOrder        string
	flagMinRatio     float64
	flagFailAbove    float64
	flagChanged      bool
	flagBaseline     string
	flagVerbose      bool
)

var rankCmd = &cobra.Command{
	Use:   "rank <report.xml> <root-dir>",
	Short: "Rank the duplicated pairs of a CPD report",
	Long: `Rank reads a PMD CPD XML report, counts the lines of every referenced file
under root-dir and lists each duplicated pair with the share of both files
the duplication covers, ascending by the first file's ratio.

The root directory may also come from DUPRANK_ROOT or the "root" config key.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&flagPrefixMarker, "prefix-marker", "", `Path segment stripped from report paths (default "../../../")`)
	rankCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Goroutines counting lines (0 or 1: sequential, negative: NumCPU)")
	rankCmd.Flags().StringVar(&flagOrder, "order", "asc", "Presentation order by first ratio (asc, desc)")
	rankCmd.Flags().Float64Var(&flagMinRatio, "min-ratio", 0, "Hide pairs whose larger ratio is below this value")
	rankCmd.Flags().Float64Var(&flagFailAbove, "fail-above", 0, "Exit with code 1 if any pair has a first ratio at or above this value")
	rankCmd.Flags().BoolVar(&flagChanged, "changed", false, "Only show pairs touching git-changed files under root-dir")
	rankCmd.Flags().StringVar(&flagBaseline, "baseline", "", "Compare against and update this baseline file")
	rankCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log pipeline stages to stderr")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}

	cfg := loadRankConfig(cmd)

	run := config.Run{ReportPath: args[0], RootDirectory: cfg.Root}
	if len(args) > 1 {
		run.RootDirectory = args[1]
	}
	if err := run.Validate(); err != nil {
		return err
	}

	view, err := buildView(cfg)
	if err != nil {
		return err
	}
	if _, err := output.New(flagFormat, flagNoColor); err != nil {
		return fmt.Errorf("%w: %v", types.ErrUsage, err)
	}

	logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	r := pipeline.New(flagWorkers)
	r.SetPrefixMarker(flagPrefixMarker)
	r.SetLogger(logger)

	var spinner *output.Spinner
	if showSpinner() {
		spinner = output.NewSpinner(os.Stderr)
		r.SetProgress(spinner.Progress)
		spinner.Start("Counting lines")
	}

	ctx, cancel := contextWithInterrupt()
	defer cancel()

	result, err := r.Run(ctx, run)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if flagChanged {
		changed, err := pipeline.ChangedSet(run.RootDirectory)
		if err != nil {
			return fmt.Errorf("getting changed files: %w", err)
		}
		if len(changed) == 0 {
			fmt.Fprintf(os.Stderr, "warning: no git changes found under %s\n", run.RootDirectory)
		}
		view.Only = changed
	}

	if flagBaseline != "" {
		result.Ratios = compareBaseline(flagBaseline, result)
	}

	result = view.Apply(result)
	if err := writeOutput(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	return checkFailAbove(cmd, result)
}

// loadRankConfig merges the config file and environment into the flags
// the user did not set explicitly.
func loadRankConfig(cmd *cobra.Command) config.Config {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	config.ApplyEnv(&cfg, ".")

	if !cmd.Flags().Changed("prefix-marker") && cfg.PrefixMarker != "" {
		flagPrefixMarker = cfg.PrefixMarker
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("order") && cfg.Order != "" {
		flagOrder = cfg.Order
	}
	if !cmd.Flags().Changed("workers") && cfg.Workers != 0 {
		flagWorkers = cfg.Workers
	}
	if !cmd.Flags().Changed("min-ratio") && cfg.MinRatio != 0 {
		flagMinRatio = cfg.MinRatio
	}
	if !cmd.Flags().Changed("fail-above") && cfg.FailAbove != 0 {
		flagFailAbove = cfg.FailAbove
	}
	if !cmd.Flags().Changed("baseline") && cfg.Baseline != "" {
		flagBaseline = cfg.Baseline
	}
	if os.Getenv("NO_COLOR") != "" {
		flagNoColor = true
	}
	return cfg
}

func buildView(cfg config.Config) (pipeline.View, error) {
	order, err := types.ParseOrder(flagOrder)
	if err != nil {
		return pipeline.View{}, fmt.Errorf("%w: invalid --order: %v", types.ErrUsage, err)
	}
	if flagMinRatio < 0 {
		return pipeline.View{}, fmt.Errorf("%w: --min-ratio must not be negative", types.ErrUsage)
	}
	view := pipeline.View{Order: order, MinRatio: flagMinRatio, Ignore: cfg.Ignore}
	if err := view.Validate(); err != nil {
		return pipeline.View{}, fmt.Errorf("%w: %v", types.ErrUsage, err)
	}
	return view, nil
}

func buildLogger() (*zap.Logger, error) {
	if !flagVerbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func showSpinner() bool {
	if flagVerbose || flagOutput != "" || flagFormat != "terminal" {
		return false
	}
	info, err := os.Stderr.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func compareBaseline(path string, result *types.RankResult) []types.Ratio {
	store := baseline.New(path)
	if err := store.Load(); err != nil {
		// Keep the unreadable file for the user to inspect.
		fmt.Fprintf(os.Stderr, "warning: loading baseline: %v (not updating it)\n", err)
		return result.Ratios
	}
	annotated := store.Annotate(result.Ratios)
	store.Replace(result.RunID, result.Ratios)
	if err := store.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving baseline: %v\n", err)
	}
	return annotated
}

func contextWithInterrupt() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func writeOutput(stdout io.Writer, result *types.RankResult) error {
	output.ToolVersion = Version

	formatter, err := output.New(flagFormat, flagNoColor)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUsage, err)
	}

	w := stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	return formatter.Format(w, result)
}

// checkFailAbove trips when a shown pair's first ratio reaches the
// threshold. An unset threshold never trips.
func checkFailAbove(cmd *cobra.Command, result *types.RankResult) error {
	if !cmd.Flags().Changed("fail-above") && flagFailAbove == 0 {
		return nil
	}
	for _, r := range result.Ratios {
		if r.Ratio1 >= flagFailAbove {
			return fmt.Errorf("%w: %s has ratio %.2f (limit %.2f)", errThresholdExceeded, r.File1Path, r.Ratio1, flagFailAbove)
		}
	}
	return nil
}
