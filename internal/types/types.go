// Package types defines shared data structures (Report, Fact, Ratio,
// RankResult) used across the report, extract, ratio, rank and output
// packages to prevent import cycles.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FileRef is one file participating in a reported duplication.
type FileRef struct {
	Path    string `json:"path"`
	Line    int    `json:"line,omitempty"`
	EndLine int    `json:"end_line,omitempty"`
}

// Duplication is one clone instance as reported by the detector. Lines is
// kept as the raw attribute text; the extractor owns its validation.
type Duplication struct {
	Lines        string    `json:"lines"`
	Tokens       int       `json:"tokens,omitempty"`
	Files        []FileRef `json:"files"`
	CodeFragment string    `json:"-"`
}

// Report is a parsed duplication report, in document order.
type Report struct {
	Duplications []Duplication `json:"duplications"`
}

// Fact is the per-pair duplication record produced by the extractor.
// Paths are prefix-stripped and relative to the run root.
type Fact struct {
	Index           int    `json:"index"`
	DuplicatedLines int    `json:"duplicated_lines"`
	Tokens          int    `json:"tokens,omitempty"`
	File1Path       string `json:"file1_path"`
	File1Line       int    `json:"file1_line,omitempty"`
	File1EndLine    int    `json:"file1_end_line,omitempty"`
	File1TotalLines int    `json:"file1_total_lines"`
	File2Path       string `json:"file2_path"`
	File2Line       int    `json:"file2_line,omitempty"`
	File2EndLine    int    `json:"file2_end_line,omitempty"`
	File2TotalLines int    `json:"file2_total_lines"`
	CodeFragment    string `json:"code_fragment,omitempty"`
}

// Ratio holds the fraction of each file's lines covered by one duplication.
// Line, EndLine, Tokens and CodeFragment are carried from the report for
// display. Delta1 and Delta2 are only set when a baseline was compared.
type Ratio struct {
	Index           int      `json:"index"`
	Ratio1          float64  `json:"ratio1"`
	File1Path       string   `json:"file1_path"`
	File1Line       int      `json:"file1_line,omitempty"`
	File1EndLine    int      `json:"file1_end_line,omitempty"`
	Ratio2          float64  `json:"ratio2"`
	File2Path       string   `json:"file2_path"`
	File2Line       int      `json:"file2_line,omitempty"`
	File2EndLine    int      `json:"file2_end_line,omitempty"`
	DuplicatedLines int      `json:"duplicated_lines"`
	Tokens          int      `json:"tokens,omitempty"`
	CodeFragment    string   `json:"code_fragment,omitempty"`
	Delta1          *float64 `json:"delta1,omitempty"`
	Delta2          *float64 `json:"delta2,omitempty"`
}

// Max returns the larger of the two ratios.
func (r Ratio) Max() float64 {
	return max(r.Ratio1, r.Ratio2)
}

// Key identifies the file pair of a ratio independent of its position.
func (r Ratio) Key() string {
	return fmt.Sprintf("%s:%d|%s:%d", r.File1Path, r.File1Line, r.File2Path, r.File2Line)
}

// Level buckets a ratio for display.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "HIGH"
	case LevelMedium:
		return "MEDIUM"
	case LevelLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// LevelOf maps a ratio to its display level.
func LevelOf(ratio float64) Level {
	switch {
	case ratio >= 0.5:
		return LevelHigh
	case ratio >= 0.25:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Order is the presentation order of ranked ratios.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder converts a flag or config value to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return OrderAsc, nil
	case "desc", "descending":
		return OrderDesc, nil
	default:
		return OrderAsc, fmt.Errorf("unknown order: %q", s)
	}
}

// RankResult holds the ranked ratios of one run.
type RankResult struct {
	RunID        string        `json:"run_id"`
	Ratios       []Ratio       `json:"ratios"`
	Entries      int           `json:"entries"`
	FilesCounted int           `json:"files_counted"`
	Filtered     int           `json:"filtered,omitempty"`
	Order        Order         `json:"order"`
	Duration     time.Duration `json:"-"`
	Report       string        `json:"-"`
	Root         string        `json:"-"`
}

// MarshalJSON implements custom JSON marshaling so Duration serializes as milliseconds.
func (r RankResult) MarshalJSON() ([]byte, error) {
	type Alias RankResult
	return json.Marshal(struct {
		Alias
		DurationMS int64 `json:"duration_ms"`
	}{
		Alias:      Alias(r),
		DurationMS: r.Duration.Milliseconds(),
	})
}
