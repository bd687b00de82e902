// Package server supervises the local markdocs render server process.
//
// A Supervisor owns at most one external process. Start reattaches to a
// server that already answers the liveness ping; otherwise it resolves the
// server binary under the install home, spawns it through the platform
// shell and polls the ping until it succeeds or the context is canceled.
// Stop terminates the process group recorded at spawn time.
//
// The readiness poll has no attempt bound. Callers that need a deadline
// pass a context with one.
package server
