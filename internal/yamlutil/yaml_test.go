package yamlutil_test

// Notes:
// - goccy/go-yaml error messages are not asserted verbatim; tests check the
//   "yamlutil:" prefix and sentinel wrapping only.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-markdocs/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			cfg := tt.dest.(*testConfig)
			if cfg.Name != "test" || cfg.Count != 42 || !cfg.Enabled {
				t.Errorf("Unmarshal() = %+v", cfg)
			}
		})
	}
}

func TestUnmarshal_InvalidYAML(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	err := yamlutil.Unmarshal([]byte("name: [unclosed"), &cfg)
	if err == nil {
		t.Fatal("Unmarshal() error = nil, want parse error")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error = %q, want yamlutil: prefix", err)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown fields rejected
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	if err := yamlutil.UnmarshalStrict([]byte("name: ok\nunknown: 1"), &cfg); err == nil {
		t.Error("UnmarshalStrict() error = nil, want unknown field error")
	}

	cfg = testConfig{}
	if err := yamlutil.UnmarshalStrict([]byte("name: ok"), &cfg); err != nil {
		t.Errorf("UnmarshalStrict() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Oversized input rejected
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	var cfg testConfig
	if err := yamlutil.Unmarshal(data, &cfg); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
}

// ---------------------------------------------------------------------------
// TestSplitFrontMatter - Document header detection
// ---------------------------------------------------------------------------

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantNil  bool
		wantRaw  string
		wantBody string
		wantLine int
		wantKey  string
	}{
		{
			name:     "title header",
			src:      "---\ntitle: Intro\nms.date: 2024-01-01\n---\n# Heading\n",
			wantRaw:  "title: Intro\nms.date: 2024-01-01\n",
			wantBody: "# Heading\n",
			wantLine: 4,
			wantKey:  "title",
		},
		{
			name:     "CRLF line endings",
			src:      "---\r\ntitle: Intro\r\n---\r\nbody",
			wantRaw:  "title: Intro\r\n",
			wantBody: "body",
			wantLine: 3,
			wantKey:  "title",
		},
		{
			name:     "empty header",
			src:      "---\n---\nbody",
			wantRaw:  "",
			wantBody: "body",
			wantLine: 2,
		},
		{
			name:    "no header",
			src:     "# Heading\n---\n",
			wantNil: true,
		},
		{
			name:    "unclosed header",
			src:     "---\ntitle: Intro\n# Heading\n",
			wantNil: true,
		},
		{
			name:    "invalid YAML between delimiters",
			src:     "---\ntitle: [unclosed\n---\n",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fm := yamlutil.SplitFrontMatter([]byte(tt.src))
			if tt.wantNil {
				if fm != nil {
					t.Fatalf("SplitFrontMatter() = %+v, want nil", fm)
				}
				return
			}
			if fm == nil {
				t.Fatal("SplitFrontMatter() = nil, want front matter")
			}
			if string(fm.Raw) != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", fm.Raw, tt.wantRaw)
			}
			if string(fm.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", fm.Body, tt.wantBody)
			}
			if fm.EndLine != tt.wantLine {
				t.Errorf("EndLine = %d, want %d", fm.EndLine, tt.wantLine)
			}
			if tt.wantKey != "" {
				if _, ok := fm.Data[tt.wantKey]; !ok {
					t.Errorf("Data missing key %q: %v", tt.wantKey, fm.Data)
				}
			}
		})
	}
}
