// Package markdocs renders markdown documents into live HTML previews by
// delegating the markup transformation to a local render server.
//
// # Quick Start
//
// Create a session from a configuration, start the server, and render:
//
//	cfg, _, err := config.Discover()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := markdocs.New(cfg, markdocs.WithWorkspace("/path/to/repo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	page, err := s.Render(ctx, source)
//
// # Server Lifecycle
//
// Start installs the server when its marker file is missing, reattaches to
// a server that already answers the liveness ping, and otherwise spawns
// the first server binary found under the install home and waits, without
// a time bound, until it answers. Canceling the context ends the wait.
// Close terminates the spawned process.
//
// # Previews
//
// A preview resource is the source URI with the markdocs scheme, a
// ".rendered" path suffix, and the full source URI as its query; see
// PreviewURI and SourceURI. Content renders a preview resource. Editor
// events (DocumentChanged, DocumentSaved) schedule change notifications
// that are coalesced per resource and delivered through Subscribe.
//
// # Editor Integration
//
// Hosts that embed an editor implement Editor to enable OpenPreview,
// Click, Reveal and SelectionChanged. Without an editor these return
// ErrNoEditor.
package markdocs
