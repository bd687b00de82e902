// Package pipeline turns a markdown document into a preview page.
//
// A render runs these stages in order:
//   - Docset resolution: find the directory holding the docset marker
//     (docfx.json) above the document, else fall back to the workspace
//   - Server render: send content and path context to the render server
//   - Front matter removal: drop the <yamlheader> block the server emits
//   - Sanitization: filter server markup through a bluemonday policy
//   - Link fixing: rewrite src/href values to file:// URLs where needed
//   - Assembly: wrap the body with settings, styles and scripts
//
// The render server does the markdown conversion; this package never parses
// markdown itself.
package pipeline
