package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	markdocs "github.com/alnah/go-markdocs"
	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/fileutil"
)

// app bundles a started session with the settings it was built from.
type app struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	notifier *cliNotifier
	session  *markdocs.Session
}

// openSession loads the configuration, creates a session for the document
// at docPath, and starts the render server. The caller must Close the
// returned session.
func openSession(ctx context.Context, f *commonFlags, env *Environment, docPath string, opts ...markdocs.Option) (*app, error) {
	logger := newLogger(env.Stderr, f)
	cfg, cfgPath, err := loadConfig(f, loadEnvConfig())
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	a := &app{
		cfg:      cfg,
		cfgPath:  cfgPath,
		logger:   logger,
		notifier: &cliNotifier{w: env.Stderr, quiet: f.quiet},
	}

	base := []markdocs.Option{
		markdocs.WithLogger(logger),
		markdocs.WithNotifier(a.notifier),
		markdocs.WithAssetPath(f.assetPath),
	}
	if ws := workspaceFor(docPath); ws != "" {
		base = append(base, markdocs.WithWorkspace(ws))
	}

	a.session, err = markdocs.New(cfg, append(base, opts...)...)
	if err != nil {
		return nil, withHints(err, cfg, "")
	}

	if err := a.session.Start(ctx); err != nil {
		marker := a.session.MarkerPath()
		_ = a.session.Close()
		return nil, &hintErr{err: err, cfg: cfg, marker: marker, reported: ctx.Err() == nil}
	}
	return a, nil
}

// workspaceFor returns the working directory when it contains docPath, so
// documents under it resolve their docset against it. Documents elsewhere
// get no workspace and use their own directory.
func workspaceFor(docPath string) string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(wd, docPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return wd
}

// resolveInput validates the single markdown input argument and returns its
// file URI and absolute path.
func resolveInput(args []string) (*url.URL, string, error) {
	switch {
	case len(args) == 0:
		return nil, "", ErrNoInput
	case len(args) > 1:
		return nil, "", fmt.Errorf("%w: expected one input file, got %d", ErrUsage, len(args))
	}

	if !fileutil.IsMarkdown(args[0]) {
		return nil, "", fmt.Errorf("%w: %s", ErrNotMarkdown, args[0])
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", args[0], err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", fmt.Errorf("reading input: %w", err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is a directory", ErrNotMarkdown, args[0])
	}

	source, err := url.Parse(fileutil.PathToFileURL(abs))
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", args[0], err)
	}
	return source, abs, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte, env *Environment) error {
	if path == "" {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- output is user content
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// isReported reports whether err was already shown by the session notifier.
func isReported(err error) bool {
	var he *hintErr
	return errors.As(err, &he) && he.reported
}
