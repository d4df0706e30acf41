package ratio_test

import (
	"errors"
	"testing"

	"github.com/garagon/duprank/internal/ratio"
	"github.com/garagon/duprank/internal/types"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.1, 0.1},
		{1.0 / 3.0, 0.33},
		{2.0 / 3.0, 0.67},
		{0.125, 0.13}, // halves round away from zero
		{0.375, 0.38},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ratio.Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestCalculateScenarioA(t *testing.T) {
	facts := []types.Fact{{
		DuplicatedLines: 10,
		Tokens:          84,
		File1Path:       "one.py",
		File1Line:       12,
		File1EndLine:    21,
		File1TotalLines: 100,
		File2Path:       "two.py",
		File2Line:       3,
		File2EndLine:    12,
		File2TotalLines: 50,
		CodeFragment:    "x = 1\n",
	}}
	ratios, err := ratio.Calculate(facts)
	require.NoError(t, err)
	require.Len(t, ratios, 1)
	require.Equal(t, 0.1, ratios[0].Ratio1)
	require.Equal(t, 0.2, ratios[0].Ratio2)
	require.Equal(t, "one.py", ratios[0].File1Path)
	require.Equal(t, "two.py", ratios[0].File2Path)
	require.Equal(t, 10, ratios[0].DuplicatedLines)
	require.Equal(t, 84, ratios[0].Tokens)
	require.Equal(t, 21, ratios[0].File1EndLine)
	require.Equal(t, 12, ratios[0].File2EndLine)
	require.Equal(t, "x = 1\n", ratios[0].CodeFragment)
}

func TestCalculateMatchesFormula(t *testing.T) {
	facts := []types.Fact{
		{Index: 0, DuplicatedLines: 7, File1TotalLines: 9, File2TotalLines: 300},
		{Index: 1, DuplicatedLines: 33, File1TotalLines: 33, File2TotalLines: 1000},
		{Index: 2, DuplicatedLines: 0, File1TotalLines: 5, File2TotalLines: 5},
		{Index: 3, DuplicatedLines: 12, File1TotalLines: 7, File2TotalLines: 48},
	}
	ratios, err := ratio.Calculate(facts)
	require.NoError(t, err)
	require.Len(t, ratios, len(facts))
	for i, f := range facts {
		require.Equal(t, f.Index, ratios[i].Index)
		require.Equal(t, ratio.Round2(float64(f.DuplicatedLines)/float64(f.File1TotalLines)), ratios[i].Ratio1)
		require.Equal(t, ratio.Round2(float64(f.DuplicatedLines)/float64(f.File2TotalLines)), ratios[i].Ratio2)
	}
	require.Equal(t, 0.78, ratios[0].Ratio1)
	require.Equal(t, 0.02, ratios[0].Ratio2)
	require.Equal(t, 1.0, ratios[1].Ratio1)
	require.Equal(t, 0.0, ratios[2].Ratio2)
	// A duplication longer than the file is reported as is.
	require.Equal(t, 1.71, ratios[3].Ratio1)
}

func TestCalculateScenarioCDivisionByZero(t *testing.T) {
	facts := []types.Fact{
		{Index: 0, DuplicatedLines: 1, File1Path: "ok.py", File1TotalLines: 10, File2Path: "ok2.py", File2TotalLines: 10},
		{Index: 1, DuplicatedLines: 5, File1Path: "full.py", File1TotalLines: 20, File2Path: "empty.py", File2TotalLines: 0},
	}
	ratios, err := ratio.Calculate(facts)
	require.ErrorIs(t, err, types.ErrDivisionByZero)
	require.Nil(t, ratios)

	var entryErr *types.EntryError
	require.True(t, errors.As(err, &entryErr))
	require.Equal(t, 1, entryErr.Index)
	require.Equal(t, "empty.py", entryErr.Path)
}

func TestCalculateEmpty(t *testing.T) {
	ratios, err := ratio.Calculate(nil)
	require.NoError(t, err)
	require.Empty(t, ratios)
}
