package preview

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the URI scheme of preview resources.
const Scheme = "markdocs"

const renderedSuffix = ".rendered"

// ErrNotPreview indicates a URI is not a preview resource.
var ErrNotPreview = errors.New("not a preview resource")

// PreviewURI returns the preview resource for source. A URI that already
// uses the preview scheme is returned unchanged.
func PreviewURI(source *url.URL) *url.URL {
	if IsPreview(source) {
		u := *source
		return &u
	}
	return &url.URL{
		Scheme:   Scheme,
		Host:     source.Host,
		Path:     source.Path + renderedSuffix,
		RawQuery: url.QueryEscape(source.String()),
	}
}

// SourceURI recovers the source document URI from a preview resource.
func SourceURI(preview *url.URL) (*url.URL, error) {
	if !IsPreview(preview) {
		return nil, fmt.Errorf("%w: %s", ErrNotPreview, preview)
	}
	raw, err := url.QueryUnescape(preview.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: bad query: %v", ErrNotPreview, err)
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: empty source", ErrNotPreview)
	}
	source, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPreview, err)
	}
	return source, nil
}

// IsPreview reports whether u uses the preview scheme.
func IsPreview(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Scheme, Scheme)
}

// IsMarkdownSource reports whether a document may be previewed: it is
// markdown and not itself a preview.
func IsMarkdownSource(u *url.URL, languageID string) bool {
	return languageID == "markdown" && !IsPreview(u)
}
