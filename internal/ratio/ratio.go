// Package ratio computes, for every duplication fact, the fraction of each
// file's lines that the duplication covers.
package ratio

import (
	"fmt"
	"math"

	"github.com/garagon/duprank/internal/types"
)

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Of returns Round2(duplicated/total). A zero total wraps
// types.ErrDivisionByZero.
func Of(duplicated, total int) (float64, error) {
	if total == 0 {
		return 0, fmt.Errorf("%w: file has 0 lines, %d duplicated", types.ErrDivisionByZero, duplicated)
	}
	return Round2(float64(duplicated) / float64(total)), nil
}

// Calculate maps facts to ratios one to one, preserving order. It returns
// no ratios at all when any fact fails.
func Calculate(facts []types.Fact) ([]types.Ratio, error) {
	out := make([]types.Ratio, len(facts))
	for i, f := range facts {
		r1, err := Of(f.DuplicatedLines, f.File1TotalLines)
		if err != nil {
			return nil, &types.EntryError{Index: f.Index, Path: f.File1Path, Err: err}
		}
		r2, err := Of(f.DuplicatedLines, f.File2TotalLines)
		if err != nil {
			return nil, &types.EntryError{Index: f.Index, Path: f.File2Path, Err: err}
		}
		out[i] = types.Ratio{
			Index:           f.Index,
			Ratio1:          r1,
			File1Path:       f.File1Path,
			File1Line:       f.File1Line,
			File1EndLine:    f.File1EndLine,
			Ratio2:          r2,
			File2Path:       f.File2Path,
			File2Line:       f.File2Line,
			File2EndLine:    f.File2EndLine,
			DuplicatedLines: f.DuplicatedLines,
			Tokens:          f.Tokens,
			CodeFragment:    f.CodeFragment,
		}
	}
	return out, nil
}
