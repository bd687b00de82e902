package pipeline

import (
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-markdocs/internal/assets"
)

// Media renders the tags that pull built-in styles and scripts into a page.
type Media interface {
	StyleTag(name string) (string, error)
	ScriptTag(name, nonce string) (string, error)
}

// LinkedMedia references media by URL under Prefix, for pages served by a
// host that also serves the media files.
type LinkedMedia struct {
	Prefix string // e.g. "/media/"
}

// StyleTag returns a <link> to {Prefix}styles/{name}.css.
func (m LinkedMedia) StyleTag(name string) (string, error) {
	if err := assets.ValidateAssetName(name); err != nil {
		return "", err
	}
	return linkTag(m.href("styles/" + name + ".css")), nil
}

// ScriptTag returns a <script src> for {Prefix}scripts/{name}.js.
func (m LinkedMedia) ScriptTag(name, nonce string) (string, error) {
	if err := assets.ValidateAssetName(name); err != nil {
		return "", err
	}
	return scriptTag(m.href("scripts/"+name+".js"), nonce), nil
}

func (m LinkedMedia) href(rel string) string {
	prefix := m.Prefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + rel
}

// InlineMedia embeds media content directly, for self-contained pages.
type InlineMedia struct {
	Loader assets.AssetLoader
}

// StyleTag returns the style content in a <style> element.
func (m InlineMedia) StyleTag(name string) (string, error) {
	css, err := m.Loader.LoadStyle(name)
	if err != nil {
		return "", err
	}
	return "<style>" + escapeStyle(css) + "</style>", nil
}

// ScriptTag returns the script content in a nonce-tagged <script> element.
func (m InlineMedia) ScriptTag(name, nonce string) (string, error) {
	js, err := m.Loader.LoadScript(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<script nonce="%s" charset="UTF-8">%s</script>`,
		html.EscapeString(nonce), strings.ReplaceAll(js, "</script", `<\/script`)), nil
}

func linkTag(href string) string {
	return `<link rel="stylesheet" type="text/css" href="` + html.EscapeString(href) + `">`
}

func scriptTag(src, nonce string) string {
	return `<script src="` + html.EscapeString(src) + `" nonce="` + html.EscapeString(nonce) + `" charset="UTF-8"></script>`
}

// escapeStyle escapes sequences that could break out of a <style> block.
func escapeStyle(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface checks.
var (
	_ Media = LinkedMedia{}
	_ Media = InlineMedia{}
)
