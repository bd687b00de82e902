package main

import (
	"errors"
	"os"

	markdocs "github.com/alnah/go-markdocs"
	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/export"
)

// Exit codes for markdocs CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitServer  = 4 // Render server or browser errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render server and browser errors (exit 4)
	if errors.Is(err, markdocs.ErrInstallationFailed) ||
		errors.Is(err, markdocs.ErrServerBinaryNotFound) ||
		errors.Is(err, markdocs.ErrSpawnFailed) ||
		errors.Is(err, markdocs.ErrServerUnreachable) ||
		errors.Is(err, markdocs.ErrRenderRequestFailed) ||
		errors.Is(err, markdocs.ErrRenderFailed) ||
		errors.Is(err, export.ErrBrowserConnect) ||
		errors.Is(err, export.ErrPageCreate) ||
		errors.Is(err, export.ErrPageLoad) ||
		errors.Is(err, export.ErrPDFGeneration) {
		return ExitServer
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, markdocs.ErrUnsupportedScheme) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNotMarkdown) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, markdocs.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrScriptNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}
