package pipeline

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/config"
)

// Settings is the JSON payload the preview script reads from the page.
type Settings struct {
	PreviewURI                       string `json:"previewUri"`
	Source                           string `json:"source"`
	Line                             *int   `json:"line,omitempty"`
	ScrollPreviewWithEditorSelection bool   `json:"scrollPreviewWithEditorSelection"`
	ScrollEditorWithPreview          bool   `json:"scrollEditorWithPreview"`
	DoubleClickToSwitchToEditor      bool   `json:"doubleClickToSwitchToEditor"`
}

// UserStyle is a configured stylesheet as written in config and as linked.
type UserStyle struct {
	Source string
	Href   string
}

// Document holds everything needed to assemble a preview page.
type Document struct {
	Settings     Settings
	Nonce        string
	Config       config.PreviewConfig
	UserStyles   []UserStyle
	ExtraStyles  []string
	ExtraScripts []string
	BaseHref     string
	Body         string
}

// Assemble renders the full preview page. Built-in media comes from media.
func (d *Document) Assemble(media Media) (string, error) {
	settings, err := json.Marshal(d.Settings)
	if err != nil {
		return "", fmt.Errorf("encoding preview settings: %w", err)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta http-equiv="Content-type" content="text/html;charset=UTF-8">` + "\n")
	b.WriteString(`<meta id="vscode-markdown-preview-data" data-settings="`)
	b.WriteString(strings.ReplaceAll(string(settings), `"`, "&quot;"))
	b.WriteString("\">\n")

	for _, name := range assets.BaseStyles {
		tag, err := media.StyleTag(name)
		if err != nil {
			return "", fmt.Errorf("style %s: %w", name, err)
		}
		b.WriteString(tag + "\n")
	}
	for _, href := range d.ExtraStyles {
		b.WriteString(linkTag(href) + "\n")
	}

	b.WriteString(settingsStyle(d.Nonce, d.Config))

	for _, s := range d.UserStyles {
		fmt.Fprintf(&b, `<link rel="stylesheet" class="code-user-style" data-source="%s" href="%s" type="text/css" media="screen">`+"\n",
			html.EscapeString(s.Source), html.EscapeString(s.Href))
	}

	if d.BaseHref != "" {
		b.WriteString(`<base href="` + html.EscapeString(d.BaseHref) + "\">\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(d.Body)
	b.WriteString("\n")

	for _, name := range assets.BaseScripts {
		tag, err := media.ScriptTag(name, d.Nonce)
		if err != nil {
			return "", fmt.Errorf("script %s: %w", name, err)
		}
		b.WriteString(tag + "\n")
	}
	for _, src := range d.ExtraScripts {
		b.WriteString(scriptTag(src, d.Nonce) + "\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

// settingsStyle renders the font overrides from config. Unset values are
// omitted.
func settingsStyle(nonce string, cfg config.PreviewConfig) string {
	var b strings.Builder
	b.WriteString(`<style nonce="` + html.EscapeString(nonce) + "\">\nbody {\n")
	if cfg.FontFamily != "" {
		b.WriteString("\tfont-family: " + escapeStyle(cfg.FontFamily) + ";\n")
	}
	if cfg.FontSize > 0 {
		b.WriteString("\tfont-size: " + strconv.FormatFloat(cfg.FontSize, 'f', -1, 64) + "px;\n")
	}
	if cfg.LineHeight > 0 {
		b.WriteString("\tline-height: " + strconv.FormatFloat(cfg.LineHeight, 'f', -1, 64) + ";\n")
	}
	b.WriteString("}\n</style>\n")
	return b.String()
}
