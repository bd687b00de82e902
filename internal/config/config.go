// Package config loads markdocs settings from YAML files.
//
// A Config has two sections: server (where the render server is installed
// and how it is reached) and preview (how rendered documents look). The
// preview section can be overridden per document by a .markdocs.yaml file
// found walking upward from the document directory; see Manager.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-markdocs/internal/fileutil"
	"github.com/alnah/go-markdocs/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidValue   = errors.New("invalid config value")
)

// Defaults.
const (
	DefaultServerURL    = "http://localhost:4462"
	DefaultMarkerFile   = "install.lock"
	DefaultDocsetMarker = "docfx.json"
	DefaultPollInterval = 100 * time.Millisecond

	// OverrideFileName is the per-directory preview override file.
	OverrideFileName = ".markdocs.yaml"
)

// Field limits.
const (
	MaxPathLength       = 4096
	MaxURLLength        = 2048
	MaxFontFamilyLength = 200
	MaxCommandLength    = 4096
	MaxStyles           = 64
	MaxFontSize         = 200
	MaxLineHeight       = 10
)

// Config holds all markdocs settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Preview PreviewConfig `yaml:"preview"`
}

// ServerConfig locates and reaches the local render server.
type ServerConfig struct {
	Home           string `yaml:"home"`           // install home containing .markdocs/ (default: user cache dir)
	URL            string `yaml:"url"`            // loopback base URL of the server
	MarkerFile     string `yaml:"markerFile"`     // install-complete marker, relative to home
	InstallCommand string `yaml:"installCommand"` // shell command run when the marker is absent
	PollInterval   string `yaml:"pollInterval"`   // readiness poll delay, Go duration (default: 100ms)
}

// PreviewConfig controls how a rendered document is presented.
type PreviewConfig struct {
	FontFamily                       string   `yaml:"fontFamily"`
	FontSize                         float64  `yaml:"fontSize"`   // px, 0 = unset
	LineHeight                       float64  `yaml:"lineHeight"` // 0 = unset
	ScrollPreviewWithEditorSelection bool     `yaml:"scrollPreviewWithEditorSelection"`
	ScrollEditorWithPreview          bool     `yaml:"scrollEditorWithPreview"`
	DoubleClickToSwitchToEditor      bool     `yaml:"doubleClickToSwitchToEditor"`
	Styles                           []string `yaml:"styles"`       // extra stylesheet paths or URLs
	Sanitize                         bool     `yaml:"sanitize"`     // sanitize server markup
	DocsetMarker                     string   `yaml:"docsetMarker"` // docset root marker file
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Home:         defaultHome(),
			URL:          DefaultServerURL,
			MarkerFile:   DefaultMarkerFile,
			PollInterval: DefaultPollInterval.String(),
		},
		Preview: DefaultPreviewConfig(),
	}
}

// DefaultPreviewConfig returns preview settings with scroll sync enabled.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		ScrollPreviewWithEditorSelection: true,
		ScrollEditorWithPreview:          true,
		DoubleClickToSwitchToEditor:      true,
		Sanitize:                         true,
		DocsetMarker:                     DefaultDocsetMarker,
	}
}

// defaultHome returns <user cache dir>/markdocs, or "markdocs" relative to
// the working directory when the cache dir is unknown.
func defaultHome() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "markdocs"
	}
	return filepath.Join(dir, "markdocs")
}

// Interval returns the parsed readiness poll interval.
func (s ServerConfig) Interval() time.Duration {
	d, err := time.ParseDuration(s.PollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.home", c.Server.Home, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.url", c.Server.URL, MaxURLLength); err != nil {
		return err
	}
	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: server.url %q (must be an http(s) URL)", ErrInvalidValue, c.Server.URL)
		}
	}
	if strings.ContainsAny(c.Server.MarkerFile, "\x00") {
		return fmt.Errorf("%w: server.markerFile %q", ErrInvalidValue, c.Server.MarkerFile)
	}
	if err := validateFieldLength("server.installCommand", c.Server.InstallCommand, MaxCommandLength); err != nil {
		return err
	}
	if c.Server.PollInterval != "" {
		d, err := time.ParseDuration(c.Server.PollInterval)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: server.pollInterval %q (must be a positive duration)", ErrInvalidValue, c.Server.PollInterval)
		}
	}
	return c.Preview.Validate()
}

// Validate checks preview ranges and field lengths.
func (p *PreviewConfig) Validate() error {
	if err := validateFieldLength("preview.fontFamily", p.FontFamily, MaxFontFamilyLength); err != nil {
		return err
	}
	if p.FontSize < 0 || p.FontSize > MaxFontSize {
		return fmt.Errorf("%w: preview.fontSize must be between 0 and %d, got %.1f", ErrInvalidValue, MaxFontSize, p.FontSize)
	}
	if p.LineHeight < 0 || p.LineHeight > MaxLineHeight {
		return fmt.Errorf("%w: preview.lineHeight must be between 0 and %d, got %.2f", ErrInvalidValue, MaxLineHeight, p.LineHeight)
	}
	if len(p.Styles) > MaxStyles {
		return fmt.Errorf("%w: preview.styles has %d entries (max %d)", ErrInvalidValue, len(p.Styles), MaxStyles)
	}
	for i, s := range p.Styles {
		if err := validateFieldLength(fmt.Sprintf("preview.styles[%d]", i), s, MaxURLLength); err != nil {
			return err
		}
	}
	if strings.ContainsAny(p.DocsetMarker, "/\\\x00") {
		return fmt.Errorf("%w: preview.docsetMarker %q (must be a file name)", ErrInvalidValue, p.DocsetMarker)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig reads the config file at path over the defaults.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Discover loads the first config found in the standard locations:
// ./.markdocs.yaml, then <user config dir>/markdocs/config.yaml.
// Returns DefaultConfig when neither exists.
func Discover() (*Config, string, error) {
	for _, p := range SearchPaths() {
		if fileutil.FileExists(p) {
			cfg, err := LoadConfig(p)
			return cfg, p, err
		}
	}
	return DefaultConfig(), "", nil
}

// SearchPaths lists the locations Discover tries, in order.
func SearchPaths() []string {
	paths := []string{OverrideFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "markdocs", "config.yaml"))
	}
	return paths
}
