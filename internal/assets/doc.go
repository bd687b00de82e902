// Package assets provides the stylesheets and scripts linked into rendered
// previews.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in media)
//	    ├── FilesystemLoader  - loads from a media directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader serves the built-in markdown, docfx and highlight styles
// and the preview scripts. The highlight style is generated from a chroma
// theme rather than stored on disk.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── scripts/
//	    └── {name}.js
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
