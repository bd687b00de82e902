package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-markdocs/internal/markup"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Render server, config files, captured output
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv returns an Environment writing to buffers with empty stdin.
func testEnv() (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		NewExporter: func(*slog.Logger) pdfExporter {
			return &fakeExporter{pdf: []byte("%PDF-1.4 fake")}
		},
	}
	return env, stdout, stderr
}

// newRenderServer starts the reference render server.
func newRenderServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(markup.NewHandler(markup.NewConverter(), slog.New(slog.DiscardHandler)))
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a config pointing at serverURL with the install marker
// already in place, and returns its path.
func writeConfig(t *testing.T, serverURL string, extra string) string {
	t.Helper()
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	writeFile(t, filepath.Join(home, "install.lock"), "")

	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("server:\n  home: %q\n  url: %q\n  pollInterval: 10ms\n%s", home, serverURL, extra)
	writeFile(t, path, content)
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeMarkdown writes a markdown document in a temp dir and returns its path.
func writeMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.md")
	writeFile(t, path, content)
	return path
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
