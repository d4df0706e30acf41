package output

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/garagon/duprank/internal/types"
)

// MarkdownFormatter outputs the ranking as GitHub-flavored markdown,
// suitable for job summaries and PR comments.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, result *types.RankResult) error {
	if len(result.Ratios) == 0 {
		f.printClean(w, result)
		return nil
	}

	f.printSummary(w, result)
	f.printPairs(w, result)
	f.printFragments(w, result)
	f.printFooter(w, result)
	return nil
}

func (f *MarkdownFormatter) printClean(w io.Writer, result *types.RankResult) {
	fmt.Fprintf(w, "### :white_check_mark: Duplication ranking: no pairs to rank\n\n")
	fmt.Fprintf(w, "> %d duplications · %d files counted · %.2fs\n",
		result.Entries, result.FilesCounted, result.Duration.Seconds())
}

func (f *MarkdownFormatter) printSummary(w io.Writer, result *types.RankResult) {
	fmt.Fprintf(w, "### :bar_chart: Duplication ranking: %d pairs\n\n", len(result.Ratios))

	summary := fmt.Sprintf("%d duplications · %d files counted · %.2fs",
		result.Entries, result.FilesCounted, result.Duration.Seconds())
	if result.Root != "" {
		summary = fmt.Sprintf("**Root:** `%s` · ", result.Root) + summary
	}
	fmt.Fprintf(w, "> %s\n\n", summary)

	counts := countByLevel(result.Ratios)
	var badges []string
	for _, lvl := range levels {
		if c := counts[lvl]; c > 0 {
			badges = append(badges, fmt.Sprintf("%s **%d %s**", levelEmoji(lvl), c, lvl.String()))
		}
	}
	fmt.Fprintf(w, "%s\n\n", strings.Join(badges, " · "))
}

func (f *MarkdownFormatter) printPairs(w io.Writer, result *types.RankResult) {
	compared := false
	for _, r := range result.Ratios {
		if r.Delta1 != nil || r.Delta2 != nil {
			compared = true
			break
		}
	}

	if compared {
		fmt.Fprintf(w, "| # | Ratio 1 | File 1 | Ratio 2 | File 2 | Lines | Tokens | Change |\n")
		fmt.Fprintf(w, "|---|---------|--------|---------|--------|-------|--------|--------|\n")
	} else {
		fmt.Fprintf(w, "| # | Ratio 1 | File 1 | Ratio 2 | File 2 | Lines | Tokens |\n")
		fmt.Fprintf(w, "|---|---------|--------|---------|--------|-------|--------|\n")
	}

	for i, r := range result.Ratios {
		tokens := "-"
		if r.Tokens > 0 {
			tokens = fmt.Sprintf("%d", r.Tokens)
		}
		row := fmt.Sprintf("| %d | %s %.2f | `%s` | %s %.2f | `%s` | %d | %s |",
			i+1,
			levelEmoji(types.LevelOf(r.Ratio1)), r.Ratio1, escapeMarkdown(span(r.File1Path, r.File1Line, r.File1EndLine)),
			levelEmoji(types.LevelOf(r.Ratio2)), r.Ratio2, escapeMarkdown(span(r.File2Path, r.File2Line, r.File2EndLine)),
			r.DuplicatedLines, tokens,
		)
		if compared {
			row += fmt.Sprintf(" %s / %s |", formatDelta(r.Delta1), formatDelta(r.Delta2))
		}
		fmt.Fprintln(w, row)
	}
	fmt.Fprintln(w)
}

// printFragments writes one collapsed block per pair that carries the
// duplicated code.
func (f *MarkdownFormatter) printFragments(w io.Writer, result *types.RankResult) {
	header := false
	for i, r := range result.Ratios {
		if strings.TrimSpace(r.CodeFragment) == "" {
			continue
		}
		if !header {
			fmt.Fprintf(w, "**Duplicated code:**\n\n")
			header = true
		}
		summary := fmt.Sprintf("#%d %s and %s", i+1,
			span(r.File1Path, r.File1Line, r.File1EndLine),
			span(r.File2Path, r.File2Line, r.File2EndLine))
		fmt.Fprintf(w, "<details>\n<summary>%s</summary>\n\n", html.EscapeString(summary))
		fence := codeFence(r.CodeFragment)
		fmt.Fprintf(w, "%s\n%s\n%s\n\n</details>\n\n", fence, strings.TrimRight(r.CodeFragment, "\n"), fence)
	}
}

// codeFence returns a backtick fence longer than any backtick run in code.
func codeFence(code string) string {
	longest, run := 0, 0
	for _, c := range code {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

func (f *MarkdownFormatter) printFooter(w io.Writer, result *types.RankResult) {
	top := topFiles(result.Ratios, topFileLimit)
	if len(top) > 1 {
		fmt.Fprintf(w, "**Most duplicated files:**\n\n")
		fmt.Fprintf(w, "| File | Highest ratio | Pairs |\n")
		fmt.Fprintf(w, "|------|---------------|-------|\n")
		for _, fs := range top {
			fmt.Fprintf(w, "| `%s` | %s | %d |\n", escapeMarkdown(fs.path), percent(fs.ratio), fs.pairs)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "*Ranked by duprank %s*\n", ToolVersion)
}

func levelEmoji(lvl types.Level) string {
	switch lvl {
	case types.LevelHigh:
		return ":red_circle:"
	case types.LevelMedium:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

// escapeMarkdown protects table cells. Text inside code spans is literal,
// so only the cell separator needs escaping.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
