package pipeline

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-markdocs/internal/fileutil"
)

// FixHref resolves a link found in a preview against the source document.
//
//   - file, http, https and protocol-relative URLs are returned unchanged
//   - absolute paths become file:// URLs
//   - with basedOnWorkspace, relative paths are joined to the workspace
//     folder containing the source document
//   - anything else is returned unchanged and resolves against <base href>
func FixHref(ws Workspace, source *url.URL, href string, basedOnWorkspace bool) string {
	if href == "" {
		return href
	}

	if u, err := url.Parse(href); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "file", "http", "https":
			return href
		case "":
			// protocol-relative
			if u.Host != "" {
				return href
			}
		}
	}

	if filepath.IsAbs(href) || path.IsAbs(filepath.ToSlash(href)) {
		return fileutil.PathToFileURL(href)
	}

	if basedOnWorkspace && source != nil {
		if root, ok := ws.FolderFor(sourcePath(source)); ok {
			return fileutil.PathToFileURL(filepath.Join(root, href))
		}
	}

	return href
}

func sourcePath(source *url.URL) string {
	if source.Scheme == "file" {
		return fileutil.FileURLToPath(source)
	}
	return filepath.FromSlash(source.Path)
}

// FixLinks rewrites every src and href attribute in body through fix.
// Fragment-only values (#...) are left alone.
func FixLinks(body string, fix func(string) string) (string, error) {
	doc, isFragment, err := parseHTML(body)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, fix)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, fix func(string) string) {
	if n.Type == html.ElementNode {
		for i, attr := range n.Attr {
			if attr.Namespace != "" || (attr.Key != "src" && attr.Key != "href") {
				continue
			}
			if strings.HasPrefix(attr.Val, "#") {
				continue
			}
			n.Attr[i].Val = fix(attr.Val)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, fix)
	}
}
