package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/duprank/internal/pipeline"
	"github.com/garagon/duprank/internal/types"
)

func rankedResult() *types.RankResult {
	return &types.RankResult{
		Order: types.OrderAsc,
		Ratios: []types.Ratio{
			{Index: 0, Ratio1: 0.05, File1Path: "src/a.py", Ratio2: 0.1, File2Path: "src/b.py"},
			{Index: 1, Ratio1: 0.2, File1Path: "vendor/x/c.py", Ratio2: 0.6, File2Path: "src/d.py"},
			{Index: 2, Ratio1: 0.4, File1Path: "src/e.py", Ratio2: 0.3, File2Path: "src/f_test.py"},
		},
	}
}

func indexes(rs []types.Ratio) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Index
	}
	return out
}

func TestViewZeroKeepsEverything(t *testing.T) {
	in := rankedResult()
	out := pipeline.View{}.Apply(in)
	require.Equal(t, []int{0, 1, 2}, indexes(out.Ratios))
	require.Equal(t, 0, out.Filtered)
	require.Equal(t, types.OrderAsc, out.Order)
}

func TestViewMinRatioUsesLargerRatio(t *testing.T) {
	out := pipeline.View{MinRatio: 0.3}.Apply(rankedResult())
	// Entry 1 survives on its second ratio.
	require.Equal(t, []int{1, 2}, indexes(out.Ratios))
	require.Equal(t, 1, out.Filtered)
}

func TestViewIgnoreMatchesEitherPath(t *testing.T) {
	v := pipeline.View{Ignore: []string{"vendor/**", "**/*_test.py"}}
	require.NoError(t, v.Validate())
	out := v.Apply(rankedResult())
	require.Equal(t, []int{0}, indexes(out.Ratios))
	require.Equal(t, 2, out.Filtered)
}

func TestViewInvalidPattern(t *testing.T) {
	require.Error(t, pipeline.View{Ignore: []string{"src/[a"}}.Validate())
}

func TestViewOnly(t *testing.T) {
	v := pipeline.View{Only: map[string]bool{"src/d.py": true}}
	out := v.Apply(rankedResult())
	require.Equal(t, []int{1}, indexes(out.Ratios))

	out = pipeline.View{Only: map[string]bool{}}.Apply(rankedResult())
	require.Empty(t, out.Ratios)
}

func TestViewDescending(t *testing.T) {
	in := rankedResult()
	out := pipeline.View{Order: types.OrderDesc}.Apply(in)
	require.Equal(t, []int{2, 1, 0}, indexes(out.Ratios))
	require.Equal(t, types.OrderDesc, out.Order)

	// The source result is untouched.
	require.Equal(t, []int{0, 1, 2}, indexes(in.Ratios))
}
