package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-markdocs/internal/export"
)

// pdfExporter prints preview pages to PDF.
type pdfExporter interface {
	PDF(ctx context.Context, page string, opts export.Options) ([]byte, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the PDF exporter.
type Environment struct {
	Now         func() time.Time
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	NewExporter func(logger *slog.Logger) pdfExporter
}

// DefaultEnv returns production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewExporter: func(logger *slog.Logger) pdfExporter {
			return export.New(export.WithLogger(logger))
		},
	}
}
