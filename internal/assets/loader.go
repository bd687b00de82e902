package assets

// Built-in media names, in link order.
const (
	MarkdownStyle  = "markdown"
	HighlightStyle = "highlight"
	DocfxStyle     = "docfx"
	MainScript     = "main"
	DocfxScript    = "docfx"
)

// BaseStyles are linked into every preview before extra styles.
var BaseStyles = []string{MarkdownStyle, HighlightStyle, DocfxStyle}

// BaseScripts are loaded into every preview before extra scripts.
var BaseScripts = []string{MainScript, DocfxScript}

// AssetLoader defines the contract for loading preview media.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadScript loads a script by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)
}
