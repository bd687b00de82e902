package main

// Notes:
// - newLogger: we test level selection from --quiet/--verbose.
// - cliNotifier: we test message prefixes and quiet mode.
// - hintsFor: we test that each startup failure gets its hint and that
//   config carried by withHints is used.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	markdocs "github.com/alnah/go-markdocs"
	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/export"
)

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		flags     commonFlags
		wantDebug bool
		wantWarn  bool
	}{
		{name: "default", flags: commonFlags{}, wantDebug: false, wantWarn: true},
		{name: "verbose", flags: commonFlags{verbose: true}, wantDebug: true, wantWarn: true},
		{name: "quiet", flags: commonFlags{quiet: true}, wantDebug: false, wantWarn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger := newLogger(&bytes.Buffer{}, &tt.flags)
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("warn enabled = %v, want %v", got, tt.wantWarn)
			}
			if !logger.Enabled(ctx, slog.LevelError) {
				t.Error("error level must always be enabled")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCLINotifier - Terminal messages
// ---------------------------------------------------------------------------

func TestCLINotifier(t *testing.T) {
	t.Parallel()

	t.Run("prefixes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n := &cliNotifier{w: &buf}
		n.Info("wrote out.html")
		n.Error("server crashed")

		want := "[Markdocs]: wrote out.html\n[Markdocs Error]: server crashed\n"
		if buf.String() != want {
			t.Errorf("output = %q, want %q", buf.String(), want)
		}
	})

	t.Run("quiet keeps errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n := &cliNotifier{w: &buf, quiet: true}
		n.Info("hidden")
		n.Error("shown")

		if strings.Contains(buf.String(), "hidden") {
			t.Errorf("output = %q, info should be suppressed", buf.String())
		}
		if !strings.Contains(buf.String(), "[Markdocs Error]: shown") {
			t.Errorf("output = %q, want error line", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestHintsFor - Actionable hints per failure
// ---------------------------------------------------------------------------

func TestHintsFor(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Server.Home = "/opt/markdocs"
	cfg.Server.URL = "http://127.0.0.1:9999"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "binary not found names home",
			err:  withHints(fmt.Errorf("start: %w", markdocs.ErrServerBinaryNotFound), cfg, ""),
			want: "/opt/markdocs",
		},
		{
			name: "install failed names marker",
			err:  withHints(markdocs.ErrInstallationFailed, cfg, "/opt/markdocs/install.lock"),
			want: "create /opt/markdocs/install.lock",
		},
		{
			name: "unreachable names url",
			err:  withHints(markdocs.ErrServerUnreachable, cfg, ""),
			want: "http://127.0.0.1:9999",
		},
		{
			name: "config not found",
			err:  config.ErrConfigNotFound,
			want: "use --config",
		},
		{
			name: "page load suggests timeout",
			err:  export.ErrPageLoad,
			want: "--timeout",
		},
		{
			name: "style not found lists styles",
			err:  assets.ErrStyleNotFound,
			want: "available: markdown, highlight, docfx",
		},
		{
			name: "write output",
			err:  ErrWriteOutput,
			want: "writable",
		},
		{
			name: "unrelated error",
			err:  errors.New("boom"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintsFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintsFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintsFor() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestWithHints_Nil(t *testing.T) {
	t.Parallel()

	if err := withHints(nil, config.DefaultConfig(), ""); err != nil {
		t.Errorf("withHints(nil) = %v, want nil", err)
	}
}
