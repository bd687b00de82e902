package main

// Notes:
// - printUsage and the per-command usage printers: we test that required
//   content is present, not exact formatting.
// - runHelp: we test routing to the correct help topic.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Usage output
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	for _, s := range []string{"Usage: markdocs", "Commands:", "render", "preview", "export", "doctor", "version", "help"} {
		if !strings.Contains(output, s) {
			t.Errorf("printUsage output should contain %q", s)
		}
	}
}

func TestPrintCommandUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(io.Writer)
		want  []string
	}{
		{
			name:  "render",
			print: printRenderUsage,
			want:  []string{"Usage: markdocs render", "--output", "--config", "MARKDOCS_SERVER_URL"},
		},
		{
			name:  "preview",
			print: printPreviewUsage,
			want:  []string{"Usage: markdocs preview", "--listen", defaultListen, "--delay"},
		},
		{
			name:  "export",
			print: printExportUsage,
			want:  []string{"Usage: markdocs export", "--timeout", "--title", "--page-numbers", "--landscape"},
		},
		{
			name:  "doctor",
			print: printDoctorUsage,
			want:  []string{"Usage: markdocs doctor", "--json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.print(&buf)
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("%s usage should contain %q", tt.name, s)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Help topic routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{name: "no topic", args: nil, wantStdout: "Commands:"},
		{name: "render", args: []string{"render"}, wantStdout: "Usage: markdocs render"},
		{name: "preview", args: []string{"preview"}, wantStdout: "Usage: markdocs preview"},
		{name: "export", args: []string{"export"}, wantStdout: "Usage: markdocs export"},
		{name: "doctor", args: []string{"doctor"}, wantStdout: "Usage: markdocs doctor"},
		{name: "version", args: []string{"version"}, wantStdout: "Usage: markdocs version"},
		{name: "help", args: []string{"help"}, wantStdout: "Usage: markdocs help"},
		{name: "unknown topic", args: []string{"convert"}, wantStderr: "Unknown command: convert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
