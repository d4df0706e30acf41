package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/garagon/duprank/internal/types"
)

// ANSI color codes
const (
	reset     = "\033[0m"
	bold      = "\033[1m"
	dim       = "\033[2m"
	red       = "\033[31m"
	green     = "\033[32m"
	yellow    = "\033[33m"
	blue      = "\033[34m"
	cyan      = "\033[36m"
)

const (
	barWidth      = 40
	ratioBarWidth = 10
	lineWidth     = 72
	pathWidth     = 40
	topFileLimit  = 5
)

// TerminalFormatter prints ranked pairs with ratio bars.
type TerminalFormatter struct {
	NoColor bool
}

func (f *TerminalFormatter) color(code, text string) string {
	if f.NoColor {
		return text
	}
	return code + text + reset
}

func (f *TerminalFormatter) Format(w io.Writer, result *types.RankResult) error {
	if !f.NoColor && os.Getenv("NO_COLOR") != "" {
		f.NoColor = true
	}

	f.printHeader(w, result)

	if len(result.Ratios) == 0 {
		fmt.Fprintf(w, "\n  %s No duplicated pairs to rank.\n", f.color(cyan, "✔"))
	} else {
		f.printDashboard(w, countByLevel(result.Ratios))
		f.printPairs(w, result)
		f.printTopFiles(w, result.Ratios)
	}

	f.printFooter(w, result)
	return nil
}

func (f *TerminalFormatter) separator() string {
	return strings.Repeat("─", lineWidth)
}

func (f *TerminalFormatter) sectionHeader(title string) string {
	prefix := "── " + title + " "
	remaining := max(lineWidth-utf8.RuneCountInString(prefix), 0)
	return prefix + strings.Repeat("─", remaining)
}

func (f *TerminalFormatter) printHeader(w io.Writer, result *types.RankResult) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))
	fmt.Fprintf(w, "  %s\n", f.color(bold, "DUPRANK RESULTS"))

	parts := []string{}
	if result.Report != "" {
		parts = append(parts, fmt.Sprintf("Report: %s", result.Report))
	}
	if result.Root != "" {
		parts = append(parts, fmt.Sprintf("Root: %s", result.Root))
	}
	parts = append(parts, fmt.Sprintf("%d duplications", result.Entries))
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ·  "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) printDashboard(w io.Writer, counts map[types.Level]int) {
	most := 0
	for _, c := range counts {
		most = max(most, c)
	}

	fmt.Fprintln(w)
	for _, lvl := range levels {
		c := counts[lvl]
		if c == 0 {
			continue
		}
		label := fmt.Sprintf("  %-10s", lvl.String())
		bar := f.renderBar(c, most, barWidth, f.levelColor(lvl))
		fmt.Fprintf(w, "%s %s %4d\n", f.color(bold, label), bar, c)
	}
}

func (f *TerminalFormatter) printPairs(w io.Writer, result *types.RankResult) {
	title := fmt.Sprintf("RANKED PAIRS (%d, %s)", len(result.Ratios), result.Order)
	fmt.Fprintf(w, "\n%s\n", f.color(bold, f.sectionHeader(title)))

	for i, r := range result.Ratios {
		detail := fmt.Sprintf("%d lines duplicated", r.DuplicatedLines)
		if r.Tokens > 0 {
			detail += fmt.Sprintf(" · %d tokens", r.Tokens)
		}
		fmt.Fprintf(w, "\n  %s %s\n", f.color(bold, fmt.Sprintf("#%d", i+1)), f.color(dim, detail))
		compared := r.Delta1 != nil || r.Delta2 != nil
		f.printSide(w, r.Ratio1, span(r.File1Path, r.File1Line, r.File1EndLine), r.Delta1, compared)
		f.printSide(w, r.Ratio2, span(r.File2Path, r.File2Line, r.File2EndLine), r.Delta2, compared)
	}
}

func (f *TerminalFormatter) printSide(w io.Writer, ratio float64, where string, delta *float64, compared bool) {
	lvl := types.LevelOf(ratio)
	loc := fmt.Sprintf("%-*s", pathWidth, truncate(where, pathWidth))
	fmt.Fprintf(w, "    %s %s %5.2f  %s",
		f.levelIcon(lvl),
		f.renderRatioBar(ratio, lvl),
		ratio,
		f.color(cyan, loc),
	)
	if compared {
		fmt.Fprintf(w, " %s", f.color(f.deltaColor(delta), formatDelta(delta)))
	}
	fmt.Fprintln(w)
}

func (f *TerminalFormatter) printTopFiles(w io.Writer, ratios []types.Ratio) {
	top := topFiles(ratios, topFileLimit)
	if len(top) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", f.color(bold, f.sectionHeader("MOST DUPLICATED FILES")))
	for _, fs := range top {
		fmt.Fprintf(w, "  %5s  %3d pairs  %s\n", percent(fs.ratio), fs.pairs, fs.path)
	}
}

func (f *TerminalFormatter) printFooter(w io.Writer, result *types.RankResult) {
	sep := f.separator()
	fmt.Fprintf(w, "\n%s\n", f.color(dim, sep))

	parts := []string{
		fmt.Sprintf("%d files counted", result.FilesCounted),
		fmt.Sprintf("%d pairs", len(result.Ratios)),
	}
	if result.Filtered > 0 {
		parts = append(parts, fmt.Sprintf("%d filtered", result.Filtered))
	}
	if result.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%.2fs", result.Duration.Seconds()))
	}

	fmt.Fprintf(w, "  %s\n", strings.Join(parts, " · "))
	fmt.Fprintf(w, "%s\n", f.color(dim, sep))
}

func (f *TerminalFormatter) levelIcon(lvl types.Level) string {
	switch lvl {
	case types.LevelHigh:
		return f.color(red, "▲")
	case types.LevelMedium:
		return f.color(yellow, "■")
	default:
		return f.color(blue, "●")
	}
}

func (f *TerminalFormatter) levelColor(lvl types.Level) string {
	switch lvl {
	case types.LevelHigh:
		return red
	case types.LevelMedium:
		return yellow
	default:
		return blue
	}
}

func (f *TerminalFormatter) deltaColor(d *float64) string {
	switch {
	case d == nil:
		return cyan
	case *d > 0:
		return red
	case *d < 0:
		return green
	default:
		return dim
	}
}

func (f *TerminalFormatter) renderBar(count, most, width int, code string) string {
	if most == 0 {
		return strings.Repeat("░", width)
	}
	filled := count * width / most
	if filled == 0 && count > 0 {
		filled = 1
	}
	// Keep one empty block so the bar boundary stays visible.
	if filled >= width {
		filled = width - 1
	}
	return f.color(code, strings.Repeat("█", filled)) + f.color(dim, strings.Repeat("░", width-filled))
}

// renderRatioBar draws ratio on a fixed scale where a full bar is 1.0.
// Ratios above 1 are clamped.
func (f *TerminalFormatter) renderRatioBar(ratio float64, lvl types.Level) string {
	filled := min(max(int(ratio*ratioBarWidth+0.5), 0), ratioBarWidth)
	return f.color(f.levelColor(lvl), strings.Repeat("█", filled)) +
		f.color(dim, strings.Repeat("░", ratioBarWidth-filled))
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return "..." + string(runes[len(runes)-(maxLen-3):])
}
