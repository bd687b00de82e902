package markup

import (
	"sort"
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// lineOffsetKey carries the number of source lines consumed by front matter.
var lineOffsetKey = parser.NewContextKey()

var dataLineAttr = []byte("data-line")

// lineTransformer sets data-line on paragraphs and headings.
type lineTransformer struct{}

func (lineTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	starts := lineStarts(src)
	offset := 0
	if v, ok := pc.Get(lineOffsetKey).(int); ok {
		offset = v
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindHeading:
			lines := n.Lines()
			if lines.Len() == 0 {
				return ast.WalkContinue, nil
			}
			line := lineOf(starts, lines.At(0).Start) + offset
			n.SetAttribute(dataLineAttr, []byte(strconv.Itoa(line)))
		}
		return ast.WalkContinue, nil
	})
}

// lineStarts returns the byte offset of every line start in src.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the 0-based line containing byte offset pos.
func lineOf(starts []int, pos int) int {
	return sort.SearchInts(starts, pos+1) - 1
}
