package main

// Notes:
// - runMain: we test dispatch, exit codes, and error output. Commands run
//   against the reference render server over httptest, reattached through
//   an install home whose marker already exists, so no process is spawned.
// - hasVerbose: we test flag detection used to configure automaxprocs.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Command routing and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "no command prints usage",
			args:       []string{"markdocs"},
			wantCode:   ExitUsage,
			wantStderr: "Usage: markdocs <command>",
		},
		{
			name:       "unknown command",
			args:       []string{"markdocs", "convert"},
			wantCode:   ExitUsage,
			wantStderr: "Unknown command: convert",
		},
		{
			name:       "version",
			args:       []string{"markdocs", "version"},
			wantCode:   ExitSuccess,
			wantStdout: "markdocs dev",
		},
		{
			name:       "help",
			args:       []string{"markdocs", "help", "preview"},
			wantCode:   ExitSuccess,
			wantStdout: "Usage: markdocs preview",
		},
		{
			name:       "render without input",
			args:       []string{"markdocs", "render"},
			wantCode:   ExitIO,
			wantStderr: "no input file specified",
		},
		{
			name:       "render non-markdown input",
			args:       []string{"markdocs", "render", "notes.txt"},
			wantCode:   ExitUsage,
			wantStderr: "not a markdown file",
		},
		{
			name:       "render missing file",
			args:       []string{"markdocs", "render", "does-not-exist.md"},
			wantCode:   ExitIO,
			wantStderr: "reading input",
		},
		{
			name:       "bad flag",
			args:       []string{"markdocs", "render", "--bogus", "a.md"},
			wantCode:   ExitUsage,
			wantStderr: "invalid usage",
		},
		{
			name:     "flag help",
			args:     []string{"markdocs", "export", "--help"},
			wantCode: ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := runMain(context.Background(), tt.args, env)
			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d\nstderr: %s", code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_ConfigNotFound(t *testing.T) {
	t.Parallel()

	input := writeMarkdown(t, "# Guide\n")
	env, _, stderr := testEnv()

	code := runMain(context.Background(),
		[]string{"markdocs", "render", "--config", filepath.Join(t.TempDir(), "missing.yaml"), input}, env)

	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "config file not found") {
		t.Errorf("stderr = %q, want config error", stderr.String())
	}
	if !strings.Contains(stderr.String(), "hint: use --config") {
		t.Errorf("stderr = %q, want config hint", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Render - Rendering through the render server
// ---------------------------------------------------------------------------

func TestRunMain_Render_Stdout(t *testing.T) {
	t.Parallel()

	srv := newRenderServer(t)
	cfgPath := writeConfig(t, srv.URL, "preview:\n  fontSize: 15\n")
	input := writeMarkdown(t, "---\ntitle: Guide\n---\n# Guide\n\nBody text.\n")
	env, stdout, stderr := testEnv()

	code := runMain(context.Background(), []string{"markdocs", "render", "-c", cfgPath, input}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0\nstderr: %s", code, stderr.String())
	}

	page := stdout.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"Body text.",
		"font-size: 15px;",
		`<base href="file://`,
		"<style>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<yamlheader") {
		t.Error("page still contains the front matter block")
	}
}

func TestRunMain_Render_OutputFile(t *testing.T) {
	t.Parallel()

	srv := newRenderServer(t)
	cfgPath := writeConfig(t, srv.URL, "")
	input := writeMarkdown(t, "# Guide\n")
	output := filepath.Join(t.TempDir(), "guide.html")
	env, stdout, stderr := testEnv()

	code := runMain(context.Background(), []string{"markdocs", "render", "-c", cfgPath, "-o", output, input}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0\nstderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "Guide") {
		t.Errorf("output = %q, want rendered heading", data)
	}
	if stdout.String() != "" {
		t.Errorf("stdout = %q, want empty when writing to a file", stdout.String())
	}
	if !strings.Contains(stderr.String(), "[Markdocs]: wrote "+output) {
		t.Errorf("stderr = %q, want write notice", stderr.String())
	}
}

func TestRunMain_Render_QuietSuppressesNotice(t *testing.T) {
	t.Parallel()

	srv := newRenderServer(t)
	cfgPath := writeConfig(t, srv.URL, "")
	input := writeMarkdown(t, "# Guide\n")
	output := filepath.Join(t.TempDir(), "guide.html")
	env, _, stderr := testEnv()

	code := runMain(context.Background(), []string{"markdocs", "render", "-q", "-c", cfgPath, "-o", output, input}, env)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want 0\nstderr: %s", code, stderr.String())
	}
	if stderr.String() != "" {
		t.Errorf("stderr = %q, want empty with --quiet", stderr.String())
	}
}

func TestRunMain_Render_ServerNotInstalled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	// Marker present but no binary, and nothing listening on the URL.
	home := filepath.Join(dir, "home")
	writeFile(t, filepath.Join(home, "install.lock"), "")
	writeFile(t, cfgPath, "server:\n  home: \""+filepath.ToSlash(home)+"\"\n  url: \"http://127.0.0.1:1\"\n")
	input := writeMarkdown(t, "# Guide\n")
	env, _, stderr := testEnv()

	code := runMain(context.Background(), []string{"markdocs", "render", "-c", cfgPath, input}, env)
	if code != ExitServer {
		t.Errorf("runMain() = %d, want %d\nstderr: %s", code, ExitServer, stderr.String())
	}
	out := stderr.String()
	if !strings.Contains(out, "[Markdocs Error]:") {
		t.Errorf("stderr = %q, want notifier error", out)
	}
	if !strings.Contains(out, "hint: install the render server") {
		t.Errorf("stderr = %q, want install hint", out)
	}
	if strings.Contains(out, "error: ") {
		t.Errorf("stderr = %q, error already reported should not repeat", out)
	}
}

// ---------------------------------------------------------------------------
// TestHasVerbose - automaxprocs logging switch
// ---------------------------------------------------------------------------

func TestHasVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"render", "-v", "a.md"}, true},
		{[]string{"render", "--verbose"}, true},
		{[]string{"render", "a.md"}, false},
		{[]string{"render", "--", "-v"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := hasVerbose(tt.args); got != tt.want {
			t.Errorf("hasVerbose(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
