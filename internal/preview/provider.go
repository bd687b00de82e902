package preview

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/pipeline"
)

// UpdateDelay is the quiet window before an update notification fires.
const UpdateDelay = 50 * time.Millisecond

// subscriberBuffer is the notification backlog kept per subscriber.
const subscriberBuffer = 16

// Snapshot is the state of a source document at render time.
type Snapshot struct {
	Content    string
	Path       string // filesystem path
	ActiveLine *int   // cursor line when an editor shows the document
}

// DocumentSource supplies document snapshots.
type DocumentSource interface {
	Snapshot(ctx context.Context, source *url.URL) (Snapshot, error)
}

// ConfigSource resolves preview settings for a document.
type ConfigSource interface {
	Load(resource, docPath string) (config.PreviewConfig, error)
}

// Renderer produces a preview page.
type Renderer interface {
	Render(ctx context.Context, req pipeline.Request) (string, error)
}

// Provider serves preview content and change notifications.
type Provider struct {
	renderer Renderer
	docs     DocumentSource
	configs  ConfigSource
	logger   *slog.Logger
	delay    time.Duration

	coalescer *Coalescer[string]

	mu           sync.Mutex
	subs         map[int]chan *url.URL
	nextSub      int
	extraStyles  []string
	extraScripts []string
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithUpdateDelay overrides the coalescing window.
func WithUpdateDelay(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.delay = d
		}
	}
}

// NewProvider creates a Provider.
func NewProvider(renderer Renderer, docs DocumentSource, configs ConfigSource, opts ...Option) *Provider {
	p := &Provider{
		renderer: renderer,
		docs:     docs,
		configs:  configs,
		logger:   slog.New(slog.DiscardHandler),
		delay:    UpdateDelay,
		subs:     make(map[int]chan *url.URL),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.coalescer = NewCoalescer(p.delay, p.notify)
	return p
}

// Content renders the preview resource. Render errors are returned as is.
func (p *Provider) Content(ctx context.Context, previewURI *url.URL) (string, error) {
	source, err := SourceURI(previewURI)
	if err != nil {
		return "", err
	}

	snap, err := p.docs.Snapshot(ctx, source)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}

	cfg, err := p.configs.Load(source.String(), snap.Path)
	if err != nil {
		return "", fmt.Errorf("loading preview settings: %w", err)
	}

	p.mu.Lock()
	styles := append([]string(nil), p.extraStyles...)
	scripts := append([]string(nil), p.extraScripts...)
	p.mu.Unlock()

	return p.renderer.Render(ctx, pipeline.Request{
		Source:       source,
		Preview:      previewURI,
		Path:         snap.Path,
		Content:      snap.Content,
		ActiveLine:   snap.ActiveLine,
		Config:       cfg,
		ExtraStyles:  styles,
		ExtraScripts: scripts,
	})
}

// Update requests a change notification for previewURI.
func (p *Provider) Update(previewURI *url.URL) {
	p.coalescer.Trigger(previewURI.String())
}

// Subscribe returns a channel of changed preview resources and a function
// that ends the subscription. Notifications are dropped for subscribers
// whose buffer is full.
func (p *Provider) Subscribe() (<-chan *url.URL, func()) {
	ch := make(chan *url.URL, subscriberBuffer)

	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if _, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(ch)
			}
		})
	}
}

func (p *Provider) notify(key string) {
	u, err := url.Parse(key)
	if err != nil {
		p.logger.Warn("dropping update for unparsable uri", "uri", key, "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- u:
		default:
		}
	}
	p.logger.Debug("preview changed", "uri", key, "subscribers", len(p.subs))
}

// AddStyle links an extra stylesheet into every preview.
func (p *Provider) AddStyle(href string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extraStyles = append(p.extraStyles, href)
}

// AddScript loads an extra script into every preview.
func (p *Provider) AddScript(src string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extraScripts = append(p.extraScripts, src)
}

// Close cancels pending notifications and ends every subscription.
func (p *Provider) Close() {
	p.coalescer.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
}
