package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/patrickmn/go-cache"

	"github.com/alnah/go-markdocs/internal/fileutil"
	"github.com/alnah/go-markdocs/internal/yamlutil"
)

// Manager resolves the PreviewConfig for a source document.
//
// The result is computed on first request and cached under the resource
// identity until Invalidate or Reset is called; files are not watched.
type Manager struct {
	base  PreviewConfig
	cache *cache.Cache
}

// NewManager creates a Manager whose per-document overrides are layered on
// top of base.
func NewManager(base PreviewConfig) *Manager {
	return &Manager{
		base:  base,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Load returns the preview settings for the document at docPath, cached
// under resource. An override file closest to the document wins; parse and
// validation errors are returned and not cached.
func (m *Manager) Load(resource, docPath string) (PreviewConfig, error) {
	if v, ok := m.cache.Get(resource); ok {
		return v.(PreviewConfig), nil
	}

	cfg, err := m.resolve(docPath)
	if err != nil {
		return PreviewConfig{}, err
	}

	m.cache.Set(resource, cfg, cache.NoExpiration)
	return cfg, nil
}

// Invalidate drops the cached settings for resource.
func (m *Manager) Invalidate(resource string) {
	m.cache.Delete(resource)
}

// Reset drops every cached entry.
func (m *Manager) Reset() {
	m.cache.Flush()
}

func (m *Manager) resolve(docPath string) (PreviewConfig, error) {
	cfg := m.base
	cfg.Styles = append([]string(nil), m.base.Styles...)

	if docPath == "" {
		return cfg, nil
	}

	dir, ok := fileutil.FindUpward(filepath.Dir(docPath), OverrideFileName)
	if !ok {
		return cfg, nil
	}

	path := filepath.Join(dir, OverrideFileName)
	data, err := os.ReadFile(path) // #nosec G304 -- path found next to the user's document
	if err != nil {
		return PreviewConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}

	// Decoding over a copy of the base keeps fields the file leaves out.
	override := struct {
		Preview PreviewConfig `yaml:"preview"`
	}{Preview: cfg}
	if len(data) > 0 {
		if err := yamlutil.Unmarshal(data, &override); err != nil {
			return PreviewConfig{}, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
	}
	cfg = override.Preview

	if err := cfg.Validate(); err != nil {
		return PreviewConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
