package output

import (
	_ "embed"
	"encoding/json"
	"io"

	"github.com/garagon/duprank/internal/types"
)

// JSONSchema describes the document written by JSONFormatter.
//
//go:embed schema.json
var JSONSchema string

// JSONFormatter outputs the ranking result as a JSON object.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, result *types.RankResult) error {
	out := *result
	if out.Ratios == nil {
		out.Ratios = []types.Ratio{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
