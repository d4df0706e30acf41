package report_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/garagon/duprank/internal/report"
	"github.com/garagon/duprank/internal/types"
	"github.com/stretchr/testify/require"
)

func TestLoadCPDReport(t *testing.T) {
	rep, err := report.Load(filepath.Join("testdata", "cpd.xml"))
	require.NoError(t, err)
	require.Len(t, rep.Duplications, 2)

	first := rep.Duplications[0]
	require.Equal(t, "10", first.Lines)
	require.Equal(t, 84, first.Tokens)
	require.Len(t, first.Files, 2)
	require.Equal(t, "../../../project/src/alpha.py", first.Files[0].Path)
	require.Equal(t, 12, first.Files[0].Line)
	require.Equal(t, 21, first.Files[0].EndLine)
	require.Contains(t, first.CodeFragment, "def handle")

	// Entries with more than two files keep every file in order.
	second := rep.Duplications[1]
	require.Len(t, second.Files, 3)
	require.Equal(t, "../../../project/src/delta.py", second.Files[2].Path)
}

func TestParseMissingAttributes(t *testing.T) {
	doc := `<pmd-cpd><duplication><file path="x"/></duplication></pmd-cpd>`
	rep, err := report.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rep.Duplications, 1)
	require.Equal(t, "", rep.Duplications[0].Lines)
	require.Equal(t, 0, rep.Duplications[0].Tokens)
	require.Equal(t, 0, rep.Duplications[0].Files[0].Line)
}

func TestParseNoDuplications(t *testing.T) {
	rep, err := report.Parse(strings.NewReader(`<pmd-cpd></pmd-cpd>`))
	require.NoError(t, err)
	require.Empty(t, rep.Duplications)
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"",
		"<pmd-cpd><duplication lines=\"3\">",
		"not xml at all",
	}
	for _, doc := range tests {
		_, err := report.Parse(strings.NewReader(doc))
		require.ErrorIs(t, err, types.ErrParse, "input %q", doc)
	}
}

func TestParseDeclaredEncoding(t *testing.T) {
	// "caf\xe9" is café in ISO-8859-1 and windows-1252.
	for _, enc := range []string{"ISO-8859-1", "windows-1252"} {
		doc := `<?xml version="1.0" encoding="` + enc + `"?>
<pmd-cpd>
  <duplication lines="3" tokens="12">
    <file line="1" endline="3" path="../../../src/caf` + "\xe9" + `.py"/>
    <file line="9" endline="11" path="../../../src/other.py"/>
    <codefragment><![CDATA[print("` + "\xe9" + `t` + "\xe9" + `")]]></codefragment>
  </duplication>
</pmd-cpd>`
		rep, err := report.Parse(strings.NewReader(doc))
		require.NoError(t, err, enc)
		require.Len(t, rep.Duplications, 1, enc)
		require.Equal(t, "../../../src/café.py", rep.Duplications[0].Files[0].Path, enc)
		require.Equal(t, `print("été")`, rep.Duplications[0].CodeFragment, enc)
	}
}

func TestParseUnknownEncoding(t *testing.T) {
	doc := `<?xml version="1.0" encoding="x-no-such-charset"?><pmd-cpd></pmd-cpd>`
	_, err := report.Parse(strings.NewReader(doc))
	require.ErrorIs(t, err, types.ErrParse)
}

func TestLoadMissingReport(t *testing.T) {
	_, err := report.Load(filepath.Join(t.TempDir(), "nope.xml"))
	require.ErrorIs(t, err, types.ErrFileNotFound)
}
