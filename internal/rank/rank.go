// Package rank orders duplication ratios.
package rank

import (
	"slices"
	"sort"

	"github.com/garagon/duprank/internal/types"
)

// Sort returns a copy of ratios ordered ascending by Ratio1. Ratio2 is
// never consulted. Ties keep their input order, so sorting an already
// sorted slice is a no-op.
func Sort(ratios []types.Ratio) []types.Ratio {
	out := slices.Clone(ratios)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ratio1 < out[j].Ratio1
	})
	return out
}

// Reverse returns a copy of ratios in reverse order.
func Reverse(ratios []types.Ratio) []types.Ratio {
	out := slices.Clone(ratios)
	slices.Reverse(out)
	return out
}

// Apply sorts ratios and presents them in the requested order.
func Apply(ratios []types.Ratio, order types.Order) []types.Ratio {
	sorted := Sort(ratios)
	if order == types.OrderDesc {
		return Reverse(sorted)
	}
	return sorted
}
