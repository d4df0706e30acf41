package output

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/garagon/duprank/internal/types"
)

// HTMLFormatter renders the markdown report as a standalone HTML page.
type HTMLFormatter struct {
	Title string
}

func (f *HTMLFormatter) Format(w io.Writer, result *types.RankResult) error {
	var md bytes.Buffer
	if err := (&MarkdownFormatter{}).Format(&md, result); err != nil {
		return err
	}

	var body bytes.Buffer
	// The markdown carries <details> blocks around code fragments.
	conv := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	if err := conv.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	title := f.Title
	if title == "" {
		title = "duprank report"
	}
	_, err := fmt.Fprintf(w, htmlPage, html.EscapeString(title), body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
code { font-size: 0.9em; }
</style>
</head>
<body>
%s</body>
</html>
`
