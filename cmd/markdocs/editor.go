package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	markdocs "github.com/alnah/go-markdocs"
	"github.com/alnah/go-markdocs/internal/fileutil"
)

// hostEditor stands in for an editor when previews are served to a
// browser: the previewed file is the only open document, previews are
// announced on the terminal, and messages go out as server-sent events.
type hostEditor struct {
	baseURL string
	hub     *eventHub
	doc     *fileEditor

	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

func newHostEditor(baseURL string, source *url.URL, out io.Writer, hub *eventHub) *hostEditor {
	e := &hostEditor{
		baseURL: baseURL,
		hub:     hub,
		out:     out,
		logger:  slog.New(slog.DiscardHandler),
	}
	e.doc = e.open(source)
	return e
}

// setLogger replaces the logger once the session's logger exists.
func (e *hostEditor) setLogger(l *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = l
	e.doc.logger = l
}

func (e *hostEditor) open(source *url.URL) *fileEditor {
	return &fileEditor{
		uri:    source,
		path:   fileutil.FileURLToPath(source),
		out:    e.out,
		mu:     &e.mu,
		logger: e.logger,
	}
}

// pageURL returns the address a browser loads to show preview.
func (e *hostEditor) pageURL(preview *url.URL) string {
	return e.baseURL + "/preview?uri=" + url.QueryEscape(preview.String())
}

func (e *hostEditor) ActiveEditor() (markdocs.TextEditor, bool) {
	return e.doc, true
}

func (e *hostEditor) VisibleEditors() []markdocs.TextEditor {
	return []markdocs.TextEditor{e.doc}
}

func (e *hostEditor) ShowDocument(_ context.Context, source *url.URL) (markdocs.TextEditor, error) {
	if source.String() == e.doc.uri.String() {
		return e.doc, nil
	}
	if source.Scheme != "file" {
		return nil, fmt.Errorf("%w: %s", markdocs.ErrUnsupportedScheme, source.Scheme)
	}
	ed := e.open(source)
	if !fileutil.FileExists(ed.path) {
		return nil, fmt.Errorf("opening %s: %w", ed.path, os.ErrNotExist)
	}
	return ed, nil
}

func (e *hostEditor) ShowPreview(_ context.Context, preview *url.URL, _ markdocs.ViewColumn, title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintf(e.out, "%s: %s\n", title, e.pageURL(preview))
	return err
}

func (e *hostEditor) PostMessage(preview *url.URL, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	n := e.hub.publish(preview.String(), sseEvent{name: eventLine, data: string(data)})
	e.logger.Debug("posted message", "uri", preview.String(), "streams", n)
	return nil
}

// fileEditor is a file on disk presented as an open editor. Reveals are
// printed as path:line:column so terminals can link them.
type fileEditor struct {
	uri    *url.URL
	path   string
	out    io.Writer
	mu     *sync.Mutex
	logger *slog.Logger

	top       int
	selection markdocs.Position
}

func (f *fileEditor) Document() *url.URL { return f.uri }

func (f *fileEditor) LanguageID() string {
	if fileutil.IsMarkdown(f.path) {
		return "markdown"
	}
	return "plaintext"
}

func (f *fileEditor) LineText(line int) string {
	if line < 0 {
		return ""
	}
	file, err := os.Open(f.path)
	if err != nil {
		return ""
	}
	defer func() { _ = file.Close() }()

	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), markdocs.MaxDocumentBytes)
	for i := 0; sc.Scan(); i++ {
		if i == line {
			return strings.TrimSuffix(sc.Text(), "\r")
		}
	}
	return ""
}

func (f *fileEditor) RevealRange(r markdocs.Range, how markdocs.RevealType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if how == markdocs.RevealAtTop {
		f.top = r.Start.Line
		f.logger.Debug("scrolled", "path", f.path, "line", r.Start.Line, "character", r.Start.Character)
		return
	}
	fmt.Fprintf(f.out, "%s:%d:%d\n", f.path, r.Start.Line+1, r.Start.Character+1)
}

func (f *fileEditor) SetSelection(p markdocs.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selection = p
}

// state returns the top line and selection, for tests.
func (f *fileEditor) state() (int, markdocs.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.top, f.selection
}

// readSelections treats each number read from r as the editor cursor line
// (1-based) and forwards it to the preview. It returns at EOF.
func readSelections(r io.Reader, source *url.URL, s *markdocs.Session, logger *slog.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		line, err := strconv.Atoi(text)
		if err != nil || line < 1 {
			logger.Warn("ignoring input, expected a line number", "input", text)
			continue
		}
		if err := s.SelectionChanged(source, "markdown", line-1); err != nil {
			logger.Warn("moving preview", "line", line, "error", err)
		}
	}
}
