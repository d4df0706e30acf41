// Package report parses PMD CPD XML duplication reports into types.Report.
package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/garagon/duprank/internal/types"
)

// cpdDocument mirrors the subset of the CPD schema we read. The root element
// name is not checked so that wrapped or renamed roots still parse.
type cpdDocument struct {
	XMLName      xml.Name         `xml:""`
	Duplications []cpdDuplication `xml:"duplication"`
}

type cpdDuplication struct {
	Lines        string    `xml:"lines,attr"`
	Tokens       string    `xml:"tokens,attr"`
	Files        []cpdFile `xml:"file"`
	CodeFragment string    `xml:"codefragment"`
}

type cpdFile struct {
	Path    string `xml:"path,attr"`
	Line    string `xml:"line,attr"`
	EndLine string `xml:"endline,attr"`
}

// Load opens and parses the report at path.
func Load(path string) (*types.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("report %s: %w", path, types.ErrFileNotFound)
		}
		return nil, fmt.Errorf("report %s: %w: %v", path, types.ErrFileUnreadable, err)
	}
	defer f.Close()

	rep, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", path, err)
	}
	return rep, nil
}

// Parse decodes a CPD XML document in any encoding its header declares.
// Malformed markup and unknown encodings yield an error wrapping
// types.ErrParse. Attribute values are carried through as reported;
// optional numeric attributes that fail to parse are left at zero.
func Parse(r io.Reader) (*types.Report, error) {
	var doc cpdDocument
	dec := xml.NewDecoder(r)
	// CPD writes the JVM or --encoding charset into the XML header.
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", types.ErrParse)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}

	rep := &types.Report{Duplications: make([]types.Duplication, 0, len(doc.Duplications))}
	for _, d := range doc.Duplications {
		dup := types.Duplication{
			Lines:        strings.TrimSpace(d.Lines),
			Tokens:       atoiOrZero(d.Tokens),
			CodeFragment: d.CodeFragment,
			Files:        make([]types.FileRef, 0, len(d.Files)),
		}
		for _, f := range d.Files {
			dup.Files = append(dup.Files, types.FileRef{
				Path:    f.Path,
				Line:    atoiOrZero(f.Line),
				EndLine: atoiOrZero(f.EndLine),
			})
		}
		rep.Duplications = append(rep.Duplications, dup)
	}
	return rep, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
