// Package output formats ranking results for terminal (ANSI), JSON, SARIF,
// Markdown, HTML and plain text output.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/garagon/duprank/internal/types"
)

// Formatter is the interface for outputting ranking results.
type Formatter interface {
	Format(w io.Writer, result *types.RankResult) error
}

// Formats lists the names accepted by New.
var Formats = []string{"terminal", "json", "markdown", "html", "sarif", "text"}

// New returns the formatter registered under name.
func New(name string, noColor bool) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "terminal":
		return &TerminalFormatter{NoColor: noColor}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "text":
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

type fileScore struct {
	path  string
	ratio float64
	pairs int
}

// topFiles returns files ordered by the highest ratio they reach in any
// pair, then by pair count and path.
func topFiles(ratios []types.Ratio, limit int) []fileScore {
	byPath := map[string]*fileScore{}
	note := func(path string, r float64) {
		fs, ok := byPath[path]
		if !ok {
			fs = &fileScore{path: path}
			byPath[path] = fs
		}
		fs.ratio = max(fs.ratio, r)
		fs.pairs++
	}
	for _, r := range ratios {
		note(r.File1Path, r.Ratio1)
		note(r.File2Path, r.Ratio2)
	}

	sorted := make([]fileScore, 0, len(byPath))
	for _, fs := range byPath {
		sorted = append(sorted, *fs)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ratio != sorted[j].ratio {
			return sorted[i].ratio > sorted[j].ratio
		}
		if sorted[i].pairs != sorted[j].pairs {
			return sorted[i].pairs > sorted[j].pairs
		}
		return sorted[i].path < sorted[j].path
	})
	return sorted[:min(len(sorted), limit)]
}

func countByLevel(ratios []types.Ratio) map[types.Level]int {
	counts := map[types.Level]int{}
	for _, r := range ratios {
		counts[types.LevelOf(r.Max())]++
	}
	return counts
}

var levels = []types.Level{types.LevelHigh, types.LevelMedium, types.LevelLow}

func location(path string, line int) string {
	if line > 0 {
		return fmt.Sprintf("%s:%d", path, line)
	}
	return path
}

// span is location with the end line appended when the report gave one.
func span(path string, line, endLine int) string {
	if line > 0 && endLine > line {
		return fmt.Sprintf("%s:%d-%d", path, line, endLine)
	}
	return location(path, line)
}

func percent(r float64) string {
	return fmt.Sprintf("%.0f%%", r*100)
}

func formatDelta(d *float64) string {
	if d == nil {
		return "new"
	}
	return fmt.Sprintf("%+.2f", *d)
}
