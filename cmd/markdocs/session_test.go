package main

// Notes:
// - resolveInput: we test argument validation and the file URI produced.
// - writeOutput: we test stdout and file targets and the write error.
// - workspaceFor: we test documents inside and outside the working directory.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveInput - Input argument validation
// ---------------------------------------------------------------------------

func TestResolveInput(t *testing.T) {
	t.Parallel()

	doc := writeMarkdown(t, "# Guide\n")
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "folder.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no args", args: nil, wantErr: ErrNoInput},
		{name: "two args", args: []string{doc, doc}, wantErr: ErrUsage},
		{name: "not markdown", args: []string{"notes.txt"}, wantErr: ErrNotMarkdown},
		{name: "missing", args: []string{filepath.Join(dir, "nope.md")}, wantErr: os.ErrNotExist},
		{name: "directory", args: []string{filepath.Join(dir, "folder.md")}, wantErr: ErrNotMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := resolveInput(tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolveInput(%q) error = %v, want %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestResolveInput_FileURI(t *testing.T) {
	t.Parallel()

	doc := writeMarkdown(t, "# Guide\n")

	source, path, err := resolveInput([]string{doc})
	if err != nil {
		t.Fatalf("resolveInput() error = %v", err)
	}
	if path != doc {
		t.Errorf("path = %q, want %q", path, doc)
	}
	if source.Scheme != "file" {
		t.Errorf("scheme = %q, want file", source.Scheme)
	}
	if !strings.HasSuffix(source.Path, "/guide.md") {
		t.Errorf("uri path = %q, want .../guide.md", source.Path)
	}
}

// ---------------------------------------------------------------------------
// TestWriteOutput - Output targets
// ---------------------------------------------------------------------------

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv()
		if err := writeOutput("", []byte("<html>"), env); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		if stdout.String() != "<html>" {
			t.Errorf("stdout = %q, want <html>", stdout.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		path := filepath.Join(t.TempDir(), "out.html")
		if err := writeOutput(path, []byte("<html>"), env); err != nil {
			t.Fatalf("writeOutput() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "<html>" {
			t.Errorf("file = %q, %v; want <html>", data, err)
		}
	})

	t.Run("missing parent directory", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		path := filepath.Join(t.TempDir(), "no", "such", "out.html")
		if err := writeOutput(path, []byte("x"), env); !errors.Is(err, ErrWriteOutput) {
			t.Errorf("writeOutput() error = %v, want ErrWriteOutput", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWorkspaceFor - Workspace from the working directory
// ---------------------------------------------------------------------------

func TestWorkspaceFor(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if got := workspaceFor(filepath.Join(wd, "docs", "a.md")); got != wd {
		t.Errorf("workspaceFor(inside) = %q, want %q", got, wd)
	}
	if got := workspaceFor(filepath.Join(filepath.Dir(wd), "elsewhere.md")); got != "" {
		t.Errorf("workspaceFor(outside) = %q, want empty", got)
	}
}
