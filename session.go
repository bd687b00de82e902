package markdocs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/client"
	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/pipeline"
	"github.com/alnah/go-markdocs/internal/preview"
	"github.com/alnah/go-markdocs/internal/server"
)

// ServerHandle describes the supervised render server process.
type ServerHandle = server.Handle

// LineMessage is posted to a preview when the editor selection moves.
type LineMessage struct {
	Line int `json:"line"`
}

// Session owns one render server and the previews rendered through it.
// Create with New, call Start, and Close when done.
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier Notifier
	editor   Editor
	docs     DocumentSource

	folders     []string
	installer   Installer
	assetPath   string
	mediaPrefix string
	httpClient  *http.Client
	updateDelay time.Duration

	media      assets.AssetLoader
	client     *client.Client
	supervisor *server.Supervisor
	configs    *config.Manager
	pipeline   *pipeline.Pipeline
	provider   *preview.Provider

	closeOnce sync.Once
	closeErr  error
}

// New creates a Session from cfg. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		logger:   slog.New(slog.DiscardHandler),
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.docs == nil {
		s.docs = NewFileDocuments()
	}

	resolver, err := assets.NewAssetResolver(s.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	s.media = resolver

	var clientOpts []client.Option
	if s.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(s.httpClient))
	}
	s.client = client.New(cfg.Server.URL, clientOpts...)

	s.supervisor = server.New(cfg.Server.Home, s.client, s.supervisorOptions()...)

	var media pipeline.Media = pipeline.InlineMedia{Loader: resolver}
	if s.mediaPrefix != "" {
		media = pipeline.LinkedMedia{Prefix: s.mediaPrefix}
	}
	s.pipeline = pipeline.New(s.client,
		pipeline.WithWorkspace(pipeline.NewWorkspace(s.folders...)),
		pipeline.WithMedia(media),
		pipeline.WithLogger(s.logger.With("component", "pipeline")),
	)

	s.configs = config.NewManager(cfg.Preview)
	s.provider = preview.NewProvider(s.pipeline, s.docs, s.configs,
		preview.WithLogger(s.logger.With("component", "preview")),
		preview.WithUpdateDelay(s.updateDelay),
	)

	return s, nil
}

func (s *Session) supervisorOptions() []server.Option {
	opts := []server.Option{
		server.WithNotifier(s.notifier),
		server.WithLogger(s.logger.With("component", "server")),
		server.WithPollInterval(s.cfg.Server.Interval()),
	}
	if s.cfg.Server.MarkerFile != "" {
		opts = append(opts, server.WithMarkerFile(s.cfg.Server.MarkerFile))
	}

	switch {
	case s.installer != nil:
		opts = append(opts, server.WithInstaller(s.installer))
	case s.cfg.Server.InstallCommand != "":
		opts = append(opts, server.WithInstaller(&server.CommandInstaller{
			Command: s.cfg.Server.InstallCommand,
			Dir:     s.cfg.Server.Home,
		}))
	}
	return opts
}

// Start provisions the render server if needed and waits until it answers.
// Startup failures are reported to the notifier and returned; cancellation
// is only returned.
func (s *Session) Start(ctx context.Context) error {
	if err := s.supervisor.EnsureDependencies(ctx); err != nil {
		s.fail(ctx, err)
		return err
	}
	if err := s.supervisor.Start(ctx); err != nil {
		s.fail(ctx, err)
		return err
	}
	s.logger.Info("render server ready", "url", s.client.BaseURL())
	return nil
}

func (s *Session) fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	s.notifier.Error(err.Error())
}

// Close stops the change stream and the spawned server. It is safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.provider.Close()
		s.closeErr = s.supervisor.Stop()
	})
	return s.closeErr
}

// Ping checks that the render server answers.
func (s *Session) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Handle reports the spawned server process. Returns ErrNoActiveServer
// when the session reattached to a running server or never started one.
func (s *Session) Handle() (ServerHandle, error) {
	return s.supervisor.Handle()
}

// MarkerPath returns the install marker location.
func (s *Session) MarkerPath() string {
	return s.supervisor.MarkerPath()
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Media returns the loader for built-in and custom styles and scripts.
func (s *Session) Media() assets.AssetLoader {
	return s.media
}

// Content renders a preview resource.
func (s *Session) Content(ctx context.Context, previewURI *url.URL) (string, error) {
	return s.provider.Content(ctx, previewURI)
}

// Render renders the preview of source.
func (s *Session) Render(ctx context.Context, source *url.URL) (string, error) {
	return s.provider.Content(ctx, PreviewURI(source))
}

// Subscribe returns a stream of changed preview resources and a function
// ending the subscription.
func (s *Session) Subscribe() (<-chan *url.URL, func()) {
	return s.provider.Subscribe()
}

// AddStyle links an extra stylesheet into every preview.
func (s *Session) AddStyle(href string) {
	s.provider.AddStyle(href)
}

// AddScript loads an extra script into every preview.
func (s *Session) AddScript(src string) {
	s.provider.AddScript(src)
}

// DocumentChanged schedules a refresh of the preview of a markdown document.
func (s *Session) DocumentChanged(source *url.URL, languageID string) {
	if IsMarkdownSource(source, languageID) {
		s.provider.Update(PreviewURI(source))
	}
}

// DocumentSaved schedules a refresh of the preview of a markdown document.
func (s *Session) DocumentSaved(source *url.URL, languageID string) {
	s.DocumentChanged(source, languageID)
}

// ReloadPreviewConfig drops the cached preview settings of source, or of
// every document when source is nil, and refreshes the affected preview.
func (s *Session) ReloadPreviewConfig(source *url.URL) {
	if source == nil {
		s.configs.Reset()
		return
	}
	s.configs.Invalidate(source.String())
	s.DocumentChanged(source, "markdown")
}

// SelectionChanged tells the preview of source which line the cursor is on.
// The line is also recorded so later renders open at it.
func (s *Session) SelectionChanged(source *url.URL, languageID string, line int) error {
	if !IsMarkdownSource(source, languageID) {
		return nil
	}
	if r, ok := s.docs.(ActiveLineRecorder); ok {
		r.SetActiveLine(source, line)
	}
	if s.editor == nil {
		return ErrNoEditor
	}
	return s.editor.PostMessage(PreviewURI(source), LineMessage{Line: line})
}

// OpenPreview shows the preview of source, or of the active document when
// source is nil, beside the editor when side is true.
func (s *Session) OpenPreview(ctx context.Context, source *url.URL, side bool) error {
	if s.editor == nil {
		return ErrNoEditor
	}
	if source == nil {
		if ed, ok := s.editor.ActiveEditor(); ok {
			source = ed.Document()
		}
	}
	if source == nil {
		return nil
	}

	previewURI := PreviewURI(source)
	s.provider.Update(previewURI)

	column := ColumnOne
	if side {
		column = ColumnTwo
	}
	return s.editor.ShowPreview(ctx, previewURI, column, "view "+path.Base(source.Path))
}

// Click opens the source document at line, centred, with the cursor at the
// start of the line. rawURI is the percent-encoded source URI sent by the
// preview.
func (s *Session) Click(ctx context.Context, rawURI string, line float64) error {
	if s.editor == nil {
		return ErrNoEditor
	}
	source, err := parseCommandURI(rawURI)
	if err != nil {
		return err
	}

	ed, err := s.editor.ShowDocument(ctx, source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}

	l := floorLine(line)
	at := Position{Line: l}
	ed.RevealRange(Range{Start: at, End: at}, RevealInCenter)
	ed.SetSelection(at)
	return nil
}

// Reveal scrolls every visible markdown editor of the source to line. The
// integer part of line is the line number; the fraction is the horizontal
// position as a share of the line length.
func (s *Session) Reveal(rawURI string, line float64) error {
	if s.editor == nil {
		return ErrNoEditor
	}
	source, err := parseCommandURI(rawURI)
	if err != nil {
		return err
	}

	sourceLine := floorLine(line)
	fraction := line - math.Floor(line)
	for _, ed := range s.editor.VisibleEditors() {
		doc := ed.Document()
		if !IsMarkdownSource(doc, ed.LanguageID()) || doc.String() != source.String() {
			continue
		}
		text := ed.LineText(sourceLine)
		start := int(math.Floor(fraction * float64(utf8.RuneCountInString(text))))
		ed.RevealRange(Range{
			Start: Position{Line: sourceLine, Character: start},
			End:   Position{Line: sourceLine + 1},
		}, RevealAtTop)
	}
	return nil
}

func parseCommandURI(raw string) (*url.URL, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding uri %q: %w", raw, err)
	}
	u, err := url.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing uri %q: %w", decoded, err)
	}
	return u, nil
}

func floorLine(line float64) int {
	if line < 0 || math.IsNaN(line) {
		return 0
	}
	return int(math.Floor(line))
}

// PreviewURI returns the preview resource of source. Preview resources are
// returned unchanged.
func PreviewURI(source *url.URL) *url.URL {
	return preview.PreviewURI(source)
}

// SourceURI recovers the source document from a preview resource.
func SourceURI(previewURI *url.URL) (*url.URL, error) {
	return preview.SourceURI(previewURI)
}

// IsMarkdownSource reports whether a document can be previewed.
func IsMarkdownSource(u *url.URL, languageID string) bool {
	return preview.IsMarkdownSource(u, languageID)
}
