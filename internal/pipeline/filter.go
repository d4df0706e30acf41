package pipeline

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/garagon/duprank/internal/rank"
	"github.com/garagon/duprank/internal/types"
)

// View narrows and orders a ranked result for presentation. Filters keep
// the relative order of the surviving ratios; re-ranking a ranked slice is
// a no-op, so only OrderDesc changes it.
type View struct {
	Order types.Order
	// MinRatio drops pairs whose larger ratio is below it.
	MinRatio float64
	// Ignore drops pairs where either path matches a doublestar pattern.
	Ignore []string
	// Only, when non-nil, keeps pairs touching at least one listed path.
	Only map[string]bool
}

// Validate reports the first malformed ignore pattern.
func (v View) Validate() error {
	for _, p := range v.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	return nil
}

// Apply returns a copy of result with the view applied. Filtered counts
// the ratios removed.
func (v View) Apply(result *types.RankResult) *types.RankResult {
	out := *result
	kept := make([]types.Ratio, 0, len(result.Ratios))
	for _, r := range result.Ratios {
		if v.keep(r) {
			kept = append(kept, r)
		}
	}
	out.Filtered = len(result.Ratios) - len(kept)

	order := v.Order
	if order == "" {
		order = types.OrderAsc
	}
	out.Ratios = rank.Apply(kept, order)
	out.Order = order
	return &out
}

func (v View) keep(r types.Ratio) bool {
	if r.Max() < v.MinRatio {
		return false
	}
	for _, p := range v.Ignore {
		if match(p, r.File1Path) || match(p, r.File2Path) {
			return false
		}
	}
	if v.Only != nil && !v.Only[r.File1Path] && !v.Only[r.File2Path] {
		return false
	}
	return true
}

func match(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}
