package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer filters server markup down to safe, styleable HTML.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer allowing user-generated content plus the
// attributes previews depend on: class for highlighting, data-* for scroll
// sync and file:// links to local resources.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowDataAttributes()
	p.AllowURLSchemes("http", "https", "mailto", "file")
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)

	// DocFX tab groups and alerts.
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^(tab|tablist|tabpanel)$`)).OnElements("a", "ul", "li", "section")
	p.AllowAttrs("aria-selected", "aria-hidden", "aria-controls", "aria-labelledby").OnElements("a", "section")
	p.AllowElements("section")

	return &Sanitizer{policy: p}
}

// Sanitize returns body with disallowed elements and attributes removed.
func (s *Sanitizer) Sanitize(body string) string {
	return s.policy.Sanitize(body)
}
