// Package markup is a reference implementation of the markdocs render
// server.
//
// It converts markdown with goldmark (GFM, footnotes, chroma class-based
// highlighting, heading IDs) and serves the wire contract:
//
//	GET  /api/ping
//	POST /api/markup  {"content","filePath","basePath"} -> {"content"}
//
// Paragraphs and headings carry a data-line attribute with their 0-based
// source line so previews can sync scrolling with the editor. A leading
// "---" YAML front matter block is returned escaped inside a <yamlheader>
// element ahead of the body.
package markup
