// Package duprank ranks the file pairs of a clone-detection report by how
// much of each file the reported duplication covers.
//
// This is the library entry point. For the CLI tool, see cmd/duprank/.
package duprank

import (
	"context"
	"fmt"
	"io"

	"github.com/garagon/duprank/internal/config"
	"github.com/garagon/duprank/internal/extract"
	"github.com/garagon/duprank/internal/pipeline"
	"github.com/garagon/duprank/internal/rank"
	"github.com/garagon/duprank/internal/ratio"
	"github.com/garagon/duprank/internal/report"
	"github.com/garagon/duprank/internal/types"
)

// Re-export core types from internal/types so consumers don't need to
// import internal packages.
type (
	Report      = types.Report
	Duplication = types.Duplication
	FileRef     = types.FileRef
	Fact        = types.Fact
	Ratio       = types.Ratio
	RankResult  = types.RankResult
	Order       = types.Order
	EntryError  = types.EntryError
)

const (
	OrderAsc  = types.OrderAsc
	OrderDesc = types.OrderDesc
)

// DefaultPrefixMarker is the path segment after which report paths become
// relative to the project root. It depends on where the detector ran; see
// WithPrefixMarker.
const DefaultPrefixMarker = extract.DefaultPrefixMarker

// Error kinds, for use with errors.Is.
var (
	ErrUsage          = types.ErrUsage
	ErrParse          = types.ErrParse
	ErrMalformedEntry = types.ErrMalformedEntry
	ErrFileNotFound   = types.ErrFileNotFound
	ErrFileUnreadable = types.ErrFileUnreadable
	ErrDivisionByZero = types.ErrDivisionByZero
)

// Rank parses the report at reportPath, resolves its files against root and
// returns the ranked pairs.
func Rank(ctx context.Context, reportPath, root string, opts ...Option) (*RankResult, error) {
	cfg := applyOpts(opts)
	result, err := newRunner(cfg).Run(ctx, config.Run{ReportPath: reportPath, RootDirectory: root})
	if err != nil {
		return nil, err
	}
	return cfg.view.Apply(result), nil
}

// RankReport is Rank for a report read from r.
func RankReport(ctx context.Context, r io.Reader, root string, opts ...Option) (*RankResult, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: root directory is required", ErrUsage)
	}
	cfg := applyOpts(opts)
	rep, err := report.Parse(r)
	if err != nil {
		return nil, err
	}
	result, err := newRunner(cfg).RunReport(ctx, rep, root)
	if err != nil {
		return nil, err
	}
	return cfg.view.Apply(result), nil
}

// Extract derives one Fact per duplication, in report order.
func Extract(ctx context.Context, rep *Report, root string, opts ...Option) ([]Fact, error) {
	cfg := applyOpts(opts)
	return extract.Extract(ctx, rep, extract.Options{
		Root:         root,
		PrefixMarker: cfg.prefixMarker,
		Workers:      cfg.workers,
	})
}

// Calculate converts facts to ratios rounded to two decimals.
func Calculate(facts []Fact) ([]Ratio, error) {
	return ratio.Calculate(facts)
}

// Sort returns ratios ordered ascending by Ratio1. Ties keep their order.
func Sort(ratios []Ratio) []Ratio {
	return rank.Sort(ratios)
}

func newRunner(cfg *rankConfig) *pipeline.Runner {
	r := pipeline.New(cfg.workers)
	r.SetPrefixMarker(cfg.prefixMarker)
	r.SetCacheSize(cfg.cacheSize)
	r.SetLogger(cfg.logger)
	return r
}
