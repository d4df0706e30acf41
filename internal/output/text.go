package output

import (
	"fmt"
	"io"

	"github.com/garagon/duprank/internal/types"
)

// TextFormatter prints one (ratio1, path1, ratio2, path2) tuple per line.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, result *types.RankResult) error {
	for _, r := range result.Ratios {
		if _, err := fmt.Fprintf(w, "(%.2f, %q, %.2f, %q)\n", r.Ratio1, r.File1Path, r.Ratio2, r.File2Path); err != nil {
			return err
		}
	}
	return nil
}
