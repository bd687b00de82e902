package markdocs

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Installer provisions the render server. A successful install leaves the
// install marker file in place.
type Installer interface {
	Install(ctx context.Context) error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets where user-visible messages go.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithEditor attaches the host editor.
func WithEditor(e Editor) Option {
	return func(s *Session) { s.editor = e }
}

// WithDocuments replaces the on-disk document source.
func WithDocuments(d DocumentSource) Option {
	return func(s *Session) {
		if d != nil {
			s.docs = d
		}
	}
}

// WithWorkspace sets the open workspace folders. The first folder is the
// workspace root.
func WithWorkspace(folders ...string) Option {
	return func(s *Session) { s.folders = folders }
}

// WithInstaller replaces the command installer built from
// server.installCommand.
func WithInstaller(i Installer) Option {
	return func(s *Session) { s.installer = i }
}

// WithAssetPath loads styles and scripts from dir, falling back to the
// embedded defaults.
func WithAssetPath(dir string) Option {
	return func(s *Session) { s.assetPath = dir }
}

// WithMediaPrefix links built-in styles and scripts under prefix instead
// of inlining them, for hosts that serve the media themselves.
func WithMediaPrefix(prefix string) Option {
	return func(s *Session) { s.mediaPrefix = prefix }
}

// WithHTTPClient sets the HTTP client used to reach the render server.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Session) { s.httpClient = hc }
}

// WithUpdateDelay overrides the change notification coalescing window.
func WithUpdateDelay(d time.Duration) Option {
	return func(s *Session) { s.updateDelay = d }
}
