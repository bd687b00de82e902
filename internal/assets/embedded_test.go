package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		styleName   string
		wantErr     error
		wantContain string
	}{
		{
			name:        "loads markdown style",
			styleName:   MarkdownStyle,
			wantContain: "font-family",
		},
		{
			name:        "loads docfx style",
			styleName:   DocfxStyle,
			wantContain: ".NOTE",
		},
		{
			name:        "generates highlight style from chroma",
			styleName:   HighlightStyle,
			wantContain: ".chroma",
		},
		{
			name:      "returns ErrStyleNotFound for nonexistent",
			styleName: "nonexistent-style-xyz",
			wantErr:   ErrStyleNotFound,
		},
		{
			name:      "returns ErrInvalidAssetName for empty name",
			styleName: "",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "returns ErrInvalidAssetName for path traversal",
			styleName: "../secret",
			wantErr:   ErrInvalidAssetName,
		},
		{
			name:      "returns ErrInvalidAssetName for name with dot",
			styleName: "style.name",
			wantErr:   ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadStyle(%q) content should contain %q", tt.styleName, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_HighlightIsStable(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	first, err := loader.LoadStyle(HighlightStyle)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	second, _ := loader.LoadStyle(HighlightStyle)
	if first != second {
		t.Error("highlight style changed between calls")
	}
}

func TestEmbeddedLoader_LoadScript(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		scriptName  string
		wantErr     error
		wantContain string
	}{
		{
			name:        "main script reads preview settings",
			scriptName:  MainScript,
			wantContain: "vscode-markdown-preview-data",
		},
		{
			name:        "docfx script",
			scriptName:  DocfxScript,
			wantContain: "NOTE",
		},
		{
			name:       "nonexistent",
			scriptName: "nonexistent",
			wantErr:    ErrScriptNotFound,
		},
		{
			name:       "invalid name",
			scriptName: "../main",
			wantErr:    ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadScript(tt.scriptName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadScript(%q) error = %v, want %v", tt.scriptName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadScript(%q) unexpected error: %v", tt.scriptName, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadScript(%q) content should contain %q", tt.scriptName, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*EmbeddedLoader)(nil)
}
