package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/garagon/duprank/internal/types"
)

// ToolVersion is the duprank version reported in SARIF and markdown output.
var ToolVersion = "dev"

// SARIFFormatter outputs one SARIF 2.1.0 result per ranked pair, located
// at the first file and related to the second.
type SARIFFormatter struct{}

const sarifRuleID = "DUP001"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Properties       map[string]any  `json:"properties,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int           `json:"startLine"`
	EndLine   int           `json:"endLine,omitempty"`
	Snippet   *sarifMessage `json:"snippet,omitempty"`
}

func (f *SARIFFormatter) Format(w io.Writer, result *types.RankResult) error {
	results := make([]sarifResult, 0, len(result.Ratios))
	for _, r := range result.Ratios {
		primary := physical(r.File1Path, r.File1Line, r.File1EndLine, 0)
		if r.CodeFragment != "" {
			primary.PhysicalLocation.Region.Snippet = &sarifMessage{Text: r.CodeFragment}
		}
		props := map[string]any{
			"ratio1": r.Ratio1,
			"ratio2": r.Ratio2,
		}
		if r.Tokens > 0 {
			props["tokens"] = r.Tokens
		}
		results = append(results, sarifResult{
			RuleID:    sarifRuleID,
			RuleIndex: 0,
			Level:     levelToSARIF(types.LevelOf(r.Max())),
			Message: sarifMessage{Text: fmt.Sprintf(
				"%d duplicated lines cover %s of %s and %s of %s",
				r.DuplicatedLines, percent(r.Ratio1), r.File1Path, percent(r.Ratio2), r.File2Path,
			)},
			Locations: []sarifLocation{primary},
			RelatedLocations: []sarifLocation{
				physical(r.File2Path, r.File2Line, r.File2EndLine, 1),
			},
			Properties: props,
		})
	}

	log := sarifLog{
		Schema:  "https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "duprank",
						Version:        ToolVersion,
						InformationURI: "https://github.com/garagon/duprank",
						Rules: []sarifRule{{
							ID:               sarifRuleID,
							Name:             "DuplicatedCode",
							ShortDescription: sarifMessage{Text: "Share of a file covered by a reported duplication"},
							DefaultConfig:    sarifDefaultConfig{Level: "warning"},
						}},
					},
				},
				Results: results,
				Properties: map[string]any{
					"run_id":      result.RunID,
					"duration_ms": result.Duration.Milliseconds(),
				},
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

// physical builds a location. endLine is dropped when the report gave none
// or it precedes the start.
func physical(path string, line, endLine, id int) sarifLocation {
	region := sarifRegion{StartLine: max(line, 1)}
	if endLine >= region.StartLine {
		region.EndLine = endLine
	}
	return sarifLocation{
		ID: id,
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: path},
			Region:           region,
		},
	}
}

func levelToSARIF(lvl types.Level) string {
	switch lvl {
	case types.LevelHigh:
		return "error"
	case types.LevelMedium:
		return "warning"
	default:
		return "note"
	}
}
