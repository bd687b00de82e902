package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	markdocs "github.com/alnah/go-markdocs"
	"github.com/alnah/go-markdocs/internal/assets"
	"github.com/alnah/go-markdocs/internal/config"
)

// maxCommandBytes bounds /api/click and /api/reveal request bodies.
const maxCommandBytes = 64 << 10

// shutdownTimeout bounds the graceful stop of the preview host.
const shutdownTimeout = 5 * time.Second

// previewHost serves previews to a browser and relays preview changes and
// editor messages as server-sent events.
type previewHost struct {
	session *markdocs.Session
	editor  *hostEditor
	hub     *eventHub
	logger  *slog.Logger
}

// lineCommand is the body of /api/click and /api/reveal.
type lineCommand struct {
	Source string  `json:"source"`
	Line   float64 `json:"line"`
}

func (h *previewHost) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.handleIndex)
	r.Get("/preview", h.handlePreview)
	r.Get("/events", h.hub.serveEvents)
	r.Get("/media/styles/{name}.css", h.handleStyle)
	r.Get("/media/scripts/{name}.js", h.handleScript)
	r.Post("/api/click", h.handleClick)
	r.Post("/api/reveal", h.handleReveal)
	return r
}

// relay forwards preview changes to the open event streams until the
// session closes its change stream.
func (h *previewHost) relay() {
	changes, cancel := h.session.Subscribe()
	defer cancel()
	for u := range changes {
		n := h.hub.publish(u.String(), sseEvent{name: eventUpdate, data: u.String()})
		h.logger.Debug("preview updated", "uri", u.String(), "streams", n)
	}
}

func (h *previewHost) handleIndex(w http.ResponseWriter, r *http.Request) {
	target := h.editor.pageURL(markdocs.PreviewURI(h.editor.doc.uri))
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *previewHost) handlePreview(w http.ResponseWriter, r *http.Request) {
	previewURI, err := url.Parse(r.URL.Query().Get("uri"))
	if err != nil {
		http.Error(w, "invalid uri", http.StatusBadRequest)
		return
	}

	page, err := h.session.Content(r.Context(), previewURI)
	if err != nil {
		h.logger.Error("preview failed", "uri", previewURI.String(), "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(page))
}

func (h *previewHost) handleStyle(w http.ResponseWriter, r *http.Request) {
	css, err := h.session.Media().LoadStyle(chi.URLParam(r, "name"))
	h.writeMedia(w, "text/css; charset=utf-8", css, err)
}

func (h *previewHost) handleScript(w http.ResponseWriter, r *http.Request) {
	js, err := h.session.Media().LoadScript(chi.URLParam(r, "name"))
	h.writeMedia(w, "text/javascript; charset=utf-8", js, err)
}

func (h *previewHost) writeMedia(w http.ResponseWriter, contentType, body string, err error) {
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) ||
			errors.Is(err, assets.ErrScriptNotFound) ||
			errors.Is(err, assets.ErrInvalidAssetName) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("loading media", "error", err)
		http.Error(w, "failed to load media", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(body))
}

func (h *previewHost) handleClick(w http.ResponseWriter, r *http.Request) {
	cmd, ok := decodeCommand(w, r)
	if !ok {
		return
	}
	if err := h.session.Click(r.Context(), cmd.Source, cmd.Line); err != nil {
		h.logger.Warn("click failed", "source", cmd.Source, "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *previewHost) handleReveal(w http.ResponseWriter, r *http.Request) {
	cmd, ok := decodeCommand(w, r)
	if !ok {
		return
	}
	if err := h.session.Reveal(cmd.Source, cmd.Line); err != nil {
		h.logger.Warn("reveal failed", "source", cmd.Source, "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeCommand(w http.ResponseWriter, r *http.Request) (lineCommand, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCommandBytes)
	var cmd lineCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return cmd, false
	}
	if cmd.Source == "" {
		http.Error(w, "missing source", http.StatusBadRequest)
		return cmd, false
	}
	return cmd, true
}

// statusFor maps session errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, markdocs.ErrNotPreview),
		errors.Is(err, markdocs.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, markdocs.ErrServerUnreachable),
		errors.Is(err, markdocs.ErrRenderRequestFailed),
		errors.Is(err, markdocs.ErrRenderFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// runPreview serves a live preview of one markdown file until interrupted.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	source, path, err := resolveInput(positional)
	if err != nil {
		return err
	}

	listen := f.listen
	if listen == "" {
		listen = loadEnvConfig().Listen
	}
	if listen == "" {
		listen = defaultListen
	}
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", listen, err)
	}
	defer func() { _ = ln.Close() }()
	baseURL := "http://" + ln.Addr().String()

	hub := newEventHub()
	editor := newHostEditor(baseURL, source, env.Stdout, hub)

	opts := []markdocs.Option{
		markdocs.WithEditor(editor),
		markdocs.WithMediaPrefix(baseURL + "/media/"),
	}
	if f.delay > 0 {
		opts = append(opts, markdocs.WithUpdateDelay(f.delay))
	}
	a, err := openSession(ctx, &f.common, env, path, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = a.session.Close() }()
	editor.setLogger(a.logger.With("component", "editor"))

	host := &previewHost{
		session: a.session,
		editor:  editor,
		hub:     hub,
		logger:  a.logger.With("component", "host"),
	}
	go host.relay()

	watcher, err := watchFile(ctx, path, func() {
		a.session.DocumentSaved(source, "markdown")
	}, a.logger.With("component", "watch"))
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	override := filepath.Join(filepath.Dir(path), config.OverrideFileName)
	overrideWatcher, err := watchFile(ctx, override, func() {
		a.session.ReloadPreviewConfig(source)
	}, a.logger.With("component", "watch"))
	if err != nil {
		return err
	}
	defer func() { _ = overrideWatcher.Close() }()

	if env.Stdin != nil {
		go readSelections(env.Stdin, source, a.session, host.logger)
	}

	srv := &http.Server{
		Handler:           host.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	if err := a.session.OpenPreview(ctx, source, false); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving previews: %w", err)
		}
	}

	hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
