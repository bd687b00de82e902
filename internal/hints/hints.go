// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-markdocs/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForServerNotFound returns hints when no server binary exists under home.
func ForServerNotFound(home string, candidates []string) string {
	if home == "" {
		return format("set server.home or MARKDOCS_HOME to the install directory")
	}
	var paths []string
	for _, c := range candidates {
		paths = append(paths, filepath.Join(home, filepath.FromSlash(c)))
	}
	hint := "install the render server"
	if len(paths) > 0 {
		hint += " at " + strings.Join(paths, " or ")
	}
	return formatHints([]string{hint, "or set MARKDOCS_HOME"})
}

// ForInstallFailed returns hints when the dependency install command fails.
// marker is the path whose absence triggers the install.
func ForInstallFailed(marker string) string {
	hints := []string{"check server.installCommand or MARKDOCS_INSTALL_COMMAND"}
	if marker != "" {
		hints = append(hints, "create "+marker+" to skip the install")
	}
	return formatHints(hints)
}

// ForServerUnreachable returns hints when the render server cannot be pinged.
func ForServerUnreachable(url string) string {
	hint := "check the render server is running"
	if url != "" {
		hint += " at " + url
	}
	return formatHints([]string{hint, "set MARKDOCS_SERVER_URL to use another address"})
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for slow servers or large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "markdocs/config.yaml") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
