package markup

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged and are turned into <mark> tags
// after rendering, so the renderer never needs WithUnsafe.
const (
	markStartPlaceholder = "\uE000"
	markEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
)

// preprocess prepares markdown for conversion. Line count is preserved so
// data-line attributes still match the editor.
func preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return highlightPattern.ReplaceAllString(content, markStartPlaceholder+"$1"+markEndPlaceholder)
}

// postprocess converts highlight placeholders to <mark> tags.
func postprocess(html string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(html, markStartPlaceholder, "<mark>"),
		markEndPlaceholder, "</mark>",
	)
}
