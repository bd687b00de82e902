package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alnah/go-markdocs/internal/export"
)

// runExport renders one markdown file and prints the page to PDF.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	source, path, err := resolveInput(positional)
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	}
	timeout := f.timeout
	if timeout <= 0 {
		timeout = export.DefaultTimeout
	}

	a, err := openSession(ctx, &f.common, env, path)
	if err != nil {
		return err
	}
	defer func() { _ = a.session.Close() }()

	page, err := a.session.Render(ctx, source)
	if err != nil {
		return withHints(err, a.cfg, a.session.MarkerPath())
	}

	exporter := env.NewExporter(a.logger.With("component", "export"))
	defer func() { _ = exporter.Close() }()

	pdfCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pdf, err := exporter.PDF(pdfCtx, page, export.Options{
		Title:          f.title,
		ShowPageNumber: f.pageNumbers,
		Landscape:      f.landscape,
	})
	if err != nil {
		return err
	}
	if err := writeOutput(output, pdf, env); err != nil {
		return err
	}
	a.notifier.Info("wrote " + output)
	return nil
}
