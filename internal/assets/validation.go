package assets

import "fmt"

// maxAssetNameLen bounds media names taken from request paths.
const maxAssetNameLen = 64

// ValidateAssetName checks that a media name can be used both as a file stem
// under styles/ or scripts/ and as a segment of a /media/ URL. Names are made
// of ASCII letters, digits, hyphens and underscores; anything else, including
// separators and dots, returns ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxAssetNameLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, maxAssetNameLen)
	}
	for i := 0; i < len(name); i++ {
		if !isAssetNameByte(name[i]) {
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}

func isAssetNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
