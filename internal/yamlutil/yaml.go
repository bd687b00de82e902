// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Config files and document front matter both go through this package.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// FrontMatter is a YAML block found at the top of a markdown document.
type FrontMatter struct {
	Raw     []byte         // YAML text between the delimiters
	Data    map[string]any // parsed mapping
	EndLine int            // 1-based line of the closing delimiter
	Body    []byte         // markdown following the closing delimiter
}

var frontMatterDelim = []byte("---")

// SplitFrontMatter detects a "---" delimited YAML mapping at the start of
// src. It returns nil when the document has no front matter, when the block
// is never closed, or when the block is not a valid YAML mapping.
func SplitFrontMatter(src []byte) *FrontMatter {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, ok := cutLine(src)
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t\r"), frontMatterDelim) {
		return nil
	}

	offset := len(src) - len(rest)
	line := 1
	for len(rest) > 0 {
		var l []byte
		start := offset
		l, rest, _ = cutLine(rest)
		offset = len(src) - len(rest)
		line++

		if !bytes.Equal(bytes.TrimRight(l, " \t\r"), frontMatterDelim) {
			continue
		}

		raw := src[len(first)+1 : start]
		var data map[string]any
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := Unmarshal(raw, &data); err != nil {
				return nil
			}
		}
		return &FrontMatter{Raw: raw, Data: data, EndLine: line, Body: src[offset:]}
	}
	return nil
}

// cutLine splits src at the first newline. ok is false when src is empty.
func cutLine(src []byte) (line, rest []byte, ok bool) {
	if len(src) == 0 {
		return nil, nil, false
	}
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		return src[:i], src[i+1:], true
	}
	return src, nil, true
}
