package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/config"
)

// ErrRenderFailed wraps any failure while producing a preview.
var ErrRenderFailed = errors.New("preview render failed")

// Renderer converts markdown to HTML given its docset context.
type Renderer interface {
	Render(ctx context.Context, content, filePath, basePath string) (string, error)
}

// Request describes one document to render.
type Request struct {
	Source       *url.URL // source document URI
	Preview      *url.URL // preview resource URI
	Path         string   // source filesystem path
	Content      string
	ActiveLine   *int
	Config       config.PreviewConfig
	ExtraStyles  []string
	ExtraScripts []string
}

// Pipeline renders preview pages.
type Pipeline struct {
	renderer  Renderer
	workspace Workspace
	sanitizer *Sanitizer
	media     Media
	nonce     func() string
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkspace sets the open workspace folders.
func WithWorkspace(ws Workspace) Option {
	return func(p *Pipeline) { p.workspace = ws }
}

// WithMedia sets how built-in styles and scripts are included.
func WithMedia(m Media) Option {
	return func(p *Pipeline) { p.media = m }
}

// WithNonce replaces the nonce generator.
func WithNonce(fn func() string) Option {
	return func(p *Pipeline) { p.nonce = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a Pipeline backed by renderer. Media defaults to inline
// embedded assets.
func New(renderer Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		renderer:  renderer,
		sanitizer: NewSanitizer(),
		media:     InlineMedia{Loader: assets.NewEmbeddedLoader()},
		nonce:     newNonce,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workspace returns the configured workspace.
func (p *Pipeline) Workspace() Workspace {
	return p.workspace
}

// Render produces the preview page for req.
func (p *Pipeline) Render(ctx context.Context, req Request) (string, error) {
	docset, err := ResolveDocset(req.Path, p.workspace, req.Config.DocsetMarker)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	p.logger.Debug("rendering", "path", req.Path, "root", docset.Root, "file", docset.RelativeFilePath)

	body, err := p.renderer.Render(ctx, req.Content, docset.RelativeFilePath, docset.Root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	body = StripYAMLHeader(body)

	body, err = FixLinks(body, func(href string) string {
		return FixHref(p.workspace, req.Source, href, false)
	})
	if err != nil {
		return "", fmt.Errorf("%w: fixing links: %v", ErrRenderFailed, err)
	}

	if req.Config.Sanitize {
		body = p.sanitizer.Sanitize(body)
	}

	doc := &Document{
		Settings:     p.settings(req),
		Nonce:        p.nonce(),
		Config:       req.Config,
		UserStyles:   p.userStyles(req),
		ExtraStyles:  req.ExtraStyles,
		ExtraScripts: req.ExtraScripts,
		Body:         body,
	}
	if req.Source != nil {
		doc.BaseHref = req.Source.String()
	}

	page, err := doc.Assemble(p.media)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return page, nil
}

func (p *Pipeline) settings(req Request) Settings {
	s := Settings{
		Line:                             req.ActiveLine,
		ScrollPreviewWithEditorSelection: req.Config.ScrollPreviewWithEditorSelection,
		ScrollEditorWithPreview:          req.Config.ScrollEditorWithPreview,
		DoubleClickToSwitchToEditor:      req.Config.DoubleClickToSwitchToEditor,
	}
	if req.Preview != nil {
		s.PreviewURI = req.Preview.String()
	}
	if req.Source != nil {
		s.Source = req.Source.String()
	}
	return s
}

func (p *Pipeline) userStyles(req Request) []UserStyle {
	styles := make([]UserStyle, 0, len(req.Config.Styles))
	for _, style := range req.Config.Styles {
		styles = append(styles, UserStyle{
			Source: style,
			Href:   FixHref(p.workspace, req.Source, style, true),
		})
	}
	return styles
}

func newNonce() string {
	return uuid.NewString()
}
