package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	markdocs "github.com/alnah/go-markdocs"
	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/export"
	"github.com/alnah/go-markdocs/internal/hints"
	"github.com/alnah/go-markdocs/internal/server"
)

// newLogger returns a text logger on w: debug with --verbose, errors only
// with --quiet, warnings otherwise.
func newLogger(w io.Writer, f *commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// cliNotifier prints session messages to the terminal.
type cliNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
}

func (n *cliNotifier) Info(msg string) {
	if n.quiet {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[Markdocs]: %s\n", msg)
}

func (n *cliNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[Markdocs Error]: %s\n", msg)
}

// hintErr carries the context hintsFor needs beyond the error chain.
type hintErr struct {
	err      error
	cfg      *config.Config
	marker   string
	reported bool // already shown by the session notifier
}

func (e *hintErr) Error() string { return e.err.Error() }
func (e *hintErr) Unwrap() error { return e.err }

// withHints attaches the session config to err so the final error message
// can name the install home, marker, and server URL.
func withHints(err error, cfg *config.Config, marker string) error {
	if err == nil {
		return nil
	}
	return &hintErr{err: err, cfg: cfg, marker: marker}
}

// hintsFor returns actionable hints for err, or "".
func hintsFor(err error) string {
	cfg := config.DefaultConfig()
	var marker string
	var he *hintErr
	if errors.As(err, &he) && he.cfg != nil {
		cfg, marker = he.cfg, he.marker
	}

	switch {
	case errors.Is(err, markdocs.ErrServerBinaryNotFound):
		return hints.ForServerNotFound(cfg.Server.Home, server.BinaryCandidates)
	case errors.Is(err, markdocs.ErrInstallationFailed):
		return hints.ForInstallFailed(marker)
	case errors.Is(err, markdocs.ErrServerUnreachable):
		return hints.ForServerUnreachable(cfg.Server.URL)
	case errors.Is(err, export.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, export.ErrPageLoad), errors.Is(err, export.ErrPDFGeneration):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths())
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.BaseStyles)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
