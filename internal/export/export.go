// Package export prints rendered preview pages to PDF with headless Chrome.
//
// The page is written to a temporary file and loaded over file:// so the
// document's <base href> resolves relative images against the source
// directory, exactly as the live preview does.
package export

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-markdocs/internal/fileutil"
)

// Sentinel errors for PDF export.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// DefaultTimeout bounds page load when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// Page dimensions in inches.
const (
	paperWidthInches       = 8.5
	paperHeightInches      = 11
	marginInches           = 0.5
	marginBottomWithFooter = 0.75
)

// Options controls the printed output.
type Options struct {
	Title          string // printed in the footer when set
	ShowPageNumber bool
	Landscape      bool
}

// Renderer turns an HTML file into PDF bytes.
type Renderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts Options) ([]byte, error)
}

var _ Renderer = (*rodRenderer)(nil)

// Exporter converts preview HTML to PDF.
type Exporter struct {
	renderer Renderer
	closer   io.Closer
	logger   *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRenderer replaces the browser-backed renderer.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		e.renderer = r
		e.closer = nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an Exporter. The browser is launched on first use.
func New(opts ...Option) *Exporter {
	r := newRodRenderer(DefaultTimeout)
	e := &Exporter{
		renderer: r,
		closer:   r,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PDF prints page to PDF.
func (e *Exporter) PDF(ctx context.Context, page string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	start := time.Now()
	pdf, err := e.renderer.RenderFromFile(ctx, tmpPath, opts)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("pdf exported", "bytes", len(pdf), "elapsed", time.Since(start))
	return pdf, nil
}

// Close releases browser resources.
func (e *Exporter) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

// rodRenderer implements Renderer using go-rod.
// Rod downloads Chromium on first run if none is found.
type rodRenderer struct {
	mu      sync.Mutex
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use a pre-installed browser when provided (containers)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = b
	return b, nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderFromFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: fileutil.PathToFileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

// buildPDFOptions constructs the print settings with an optional footer.
func buildPDFOptions(opts Options) *proto.PagePrintToPDF {
	hasFooter := opts.ShowPageNumber || opts.Title != ""

	marginBottom := marginInches
	if hasFooter {
		marginBottom = marginBottomWithFooter
	}

	pdfOpts := &proto.PagePrintToPDF{
		Landscape:       opts.Landscape,
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}

	if hasFooter {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>"
		pdfOpts.FooterTemplate = buildFooterTemplate(opts)
	}
	return pdfOpts
}

// buildFooterTemplate generates the footer for Chrome's native printing.
// pageNumber and totalPages are filled in by Chrome through CSS classes.
func buildFooterTemplate(opts Options) string {
	var left, right string
	if opts.Title != "" {
		left = html.EscapeString(opts.Title)
	}
	if opts.ShowPageNumber {
		right = `<span class="pageNumber"></span>/<span class="totalPages"></span>`
	}
	if left == "" && right == "" {
		return "<span></span>"
	}
	return fmt.Sprintf(`<div style="font-size: 9px; color: #888; width: 100%%; display: flex; justify-content: space-between; padding: 0 0.5in;"><span>%s</span><span>%s</span></div>`, left, right)
}

func floatPtr(v float64) *float64 {
	return &v
}
