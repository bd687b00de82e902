// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "markdocs-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FirstExisting returns the first candidate, joined to base, that exists as
// a regular file. Candidates are checked in order.
func FirstExisting(base string, candidates []string) (string, bool) {
	for _, c := range candidates {
		p := filepath.Join(base, filepath.FromSlash(c))
		if FileExists(p) {
			return p, true
		}
	}
	return "", false
}

// FindUpward walks from dir towards the filesystem root and returns the
// first directory that contains a file called name. The filesystem root
// itself is never inspected.
func FindUpward(dir, name string) (string, bool) {
	if dir == "" {
		return "", false
	}
	dir = filepath.Clean(dir)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		if FileExists(filepath.Join(dir, name)) {
			return dir, true
		}
		dir = parent
	}
}

// PathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths; a trailing #fragment is kept as the
// URL fragment rather than escaped into the path.
func PathToFileURL(absPath string) string {
	var fragment string
	if i := strings.IndexByte(absPath, '#'); i >= 0 {
		absPath, fragment = absPath[:i], absPath[i+1:]
	}

	p := filepath.ToSlash(absPath)
	// Windows drive paths need a leading slash: file:///C:/docs
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	u := url.URL{
		Scheme:   "file",
		Path:     p,
		Fragment: fragment,
	}
	return u.String()
}

// FileURLToPath converts a file:// URL back to a native path.
func FileURLToPath(u *url.URL) string {
	p := u.Path
	// "/C:/docs" -> "C:/docs"
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsMarkdown returns true for .md and .markdown files (case-insensitive).
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
