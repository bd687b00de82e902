package assets

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

//go:embed styles/*
var styles embed.FS

//go:embed scripts/*
var scripts embed.FS

// DefaultHighlightTheme is the chroma theme used for the highlight style.
const DefaultHighlightTheme = "github"

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct {
	theme string

	once         sync.Once
	highlightCSS string
	highlightErr error
}

// NewEmbeddedLoader creates an EmbeddedLoader using the default highlight theme.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{theme: DefaultHighlightTheme}
}

// LoadStyle loads a CSS style from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	if name == HighlightStyle {
		return e.highlight()
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadScript loads a script from embedded assets by name.
// The name should not include the .js extension.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := scripts.ReadFile("scripts/" + name + ".js")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrScriptNotFound, name)
	}

	return string(content), nil
}

// highlight generates the CSS for chroma's class-based code highlighting.
func (e *EmbeddedLoader) highlight() (string, error) {
	e.once.Do(func() {
		var buf strings.Builder
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err := formatter.WriteCSS(&buf, chromastyles.Get(e.theme)); err != nil {
			e.highlightErr = fmt.Errorf("%w: highlight: %v", ErrAssetRead, err)
			return
		}
		e.highlightCSS = buf.String()
	})
	return e.highlightCSS, e.highlightErr
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
