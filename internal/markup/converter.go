package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-markdocs/internal/yamlutil"
)

// ErrConversion indicates markdown conversion failed.
var ErrConversion = errors.New("markdown conversion failed")

// Converter turns markdown into an HTML fragment.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter creates a Converter with GFM extensions, footnotes and
// class-based syntax highlighting.
func NewConverter() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(lineTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithXHTML(),
		),
	)
	return &Converter{md: md}
}

// Convert renders content. Goldmark has no context support, so conversion
// runs in a goroutine and ctx only bounds the wait.
func (c *Converter) Convert(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		out, err := c.convert([]byte(content))
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func (c *Converter) convert(src []byte) (string, error) {
	var buf bytes.Buffer
	body := src
	offset := 0

	if fm := yamlutil.SplitFrontMatter(src); fm != nil {
		buf.WriteString("<yamlheader>")
		buf.WriteString(html.EscapeString(string(fm.Raw)))
		buf.WriteString("</yamlheader>\n")
		body = fm.Body
		offset = fm.EndLine
	}

	pc := parser.NewContext()
	pc.Set(lineOffsetKey, offset)

	if err := c.md.Convert([]byte(preprocess(string(body))), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return postprocess(buf.String()), nil
}
