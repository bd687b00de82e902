// Package preview maps source documents to preview resources and serves
// their rendered content.
//
// A preview resource is a URI with scheme "markdocs" whose path is the
// source path plus ".rendered" and whose query is the escaped source URI.
// The mapping back to the source needs nothing but the URI itself.
//
// Provider coalesces update requests per resource and notifies subscribers
// at most once per 50ms quiet window, after which they re-request content.
package preview
