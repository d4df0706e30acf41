// Package pipeline runs report parsing, fact extraction, ratio calculation
// and ranking as one unit and records what each run did.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/garagon/duprank/internal/config"
	"github.com/garagon/duprank/internal/extract"
	"github.com/garagon/duprank/internal/linecount"
	"github.com/garagon/duprank/internal/rank"
	"github.com/garagon/duprank/internal/ratio"
	"github.com/garagon/duprank/internal/report"
	"github.com/garagon/duprank/internal/types"
)

// Runner orchestrates a ranking run.
type Runner struct {
	workers      int
	prefixMarker string
	cacheSize    int
	logger       *zap.Logger
	progressFn   func(done, total int)
}

// New creates a Runner counting lines with the given number of workers.
// If workers < 0, it defaults to runtime.NumCPU(); 0 and 1 count
// sequentially.
func New(workers int) *Runner {
	if workers < 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		workers:      workers,
		prefixMarker: extract.DefaultPrefixMarker,
		logger:       zap.NewNop(),
	}
}

// SetPrefixMarker overrides extract.DefaultPrefixMarker. Empty is ignored.
func (r *Runner) SetPrefixMarker(marker string) {
	if marker != "" {
		r.prefixMarker = marker
	}
}

// SetCacheSize bounds the per-run line count cache.
func (r *Runner) SetCacheSize(n int) {
	r.cacheSize = n
}

// SetLogger attaches a logger. Nil restores the no-op logger.
func (r *Runner) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.logger = l.Named("pipeline")
}

// SetProgress registers a callback invoked after each file is counted.
func (r *Runner) SetProgress(fn func(done, total int)) {
	r.progressFn = fn
}

// Run validates the run inputs, parses the report and ranks it.
func (r *Runner) Run(ctx context.Context, run config.Run) (*types.RankResult, error) {
	if err := run.Validate(); err != nil {
		return nil, err
	}
	rep, err := report.Load(run.ReportPath)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("parsed report",
		zap.String("report", run.ReportPath),
		zap.Int("duplications", len(rep.Duplications)),
	)

	result, err := r.RunReport(ctx, rep, run.RootDirectory)
	if err != nil {
		return nil, err
	}
	result.Report = run.ReportPath
	return result, nil
}

// RunReport ranks an already parsed report. The returned ratios are
// ascending by Ratio1.
func (r *Runner) RunReport(ctx context.Context, rep *types.Report, root string) (*types.RankResult, error) {
	start := time.Now()
	runID := ulid.Make().String()
	log := r.logger.With(zap.String("run_id", runID))
	log.Info("starting ranking run",
		zap.String("root", root),
		zap.Int("duplications", len(rep.Duplications)),
		zap.Int("workers", r.workers),
	)

	counter := linecount.NewCounter(r.cacheSize)
	facts, err := extract.Extract(ctx, rep, extract.Options{
		Root:         root,
		PrefixMarker: r.prefixMarker,
		Workers:      r.workers,
		Counter:      counter,
		ProgressFn:   r.progressFn,
	})
	if err != nil {
		log.Debug("extraction failed", zap.Error(err))
		return nil, fmt.Errorf("extracting facts: %w", err)
	}
	hits, misses := counter.Stats()
	log.Debug("extracted facts",
		zap.Int("facts", len(facts)),
		zap.Int("files_read", misses),
		zap.Int("cache_hits", hits),
	)

	ratios, err := ratio.Calculate(facts)
	if err != nil {
		log.Debug("ratio calculation failed", zap.Error(err))
		return nil, fmt.Errorf("calculating ratios: %w", err)
	}
	log.Debug("calculated ratios", zap.Int("ratios", len(ratios)))

	ranked := rank.Sort(ratios)

	result := &types.RankResult{
		RunID:        runID,
		Ratios:       ranked,
		Entries:      len(rep.Duplications),
		FilesCounted: distinctFiles(facts),
		Order:        types.OrderAsc,
		Duration:     time.Since(start),
		Root:         root,
	}
	log.Info("ranking run finished",
		zap.Int("ratios", len(ranked)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// distinctFiles counts the files the facts reference. The counter's miss
// count can be higher when a small cache evicts and re-reads a file.
func distinctFiles(facts []types.Fact) int {
	seen := make(map[string]struct{}, 2*len(facts))
	for _, f := range facts {
		seen[f.File1Path] = struct{}{}
		seen[f.File2Path] = struct{}{}
	}
	return len(seen)
}
