package markdocs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/alnah/go-markdocs/internal/fileutil"
	"github.com/alnah/go-markdocs/internal/preview"
)

// Snapshot is the state of a source document at render time.
type Snapshot = preview.Snapshot

// DocumentSource supplies document snapshots to the renderer.
type DocumentSource = preview.DocumentSource

// ActiveLineRecorder is a DocumentSource that carries the editor cursor
// line into rendered pages.
type ActiveLineRecorder interface {
	SetActiveLine(source *url.URL, line int)
}

var _ ActiveLineRecorder = (*FileDocuments)(nil)

// MaxDocumentBytes bounds documents read from disk.
const MaxDocumentBytes = 16 << 20

// FileDocuments reads file:// documents from disk. Unsaved buffers and the
// active line can be supplied with SetBuffer and SetActiveLine.
type FileDocuments struct {
	mu      sync.RWMutex
	buffers map[string]string
	lines   map[string]int
}

// NewFileDocuments creates an empty FileDocuments.
func NewFileDocuments() *FileDocuments {
	return &FileDocuments{
		buffers: make(map[string]string),
		lines:   make(map[string]int),
	}
}

// Snapshot returns the buffer for source if one is set, else the file
// contents.
func (d *FileDocuments) Snapshot(_ context.Context, source *url.URL) (Snapshot, error) {
	if source.Scheme != "file" {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, source.Scheme)
	}
	key := source.String()
	path := fileutil.FileURLToPath(source)

	d.mu.RLock()
	content, buffered := d.buffers[key]
	line, hasLine := d.lines[key]
	d.mu.RUnlock()

	if !buffered {
		info, err := os.Stat(path)
		if err != nil {
			return Snapshot{}, err
		}
		if info.Size() > MaxDocumentBytes {
			return Snapshot{}, fmt.Errorf("%s: document exceeds %d bytes", path, MaxDocumentBytes)
		}
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the document URI
		if err != nil {
			return Snapshot{}, err
		}
		content = string(data)
	}

	snap := Snapshot{Content: content, Path: path}
	if hasLine {
		snap.ActiveLine = &line
	}
	return snap, nil
}

// SetBuffer overrides the on-disk contents of source.
func (d *FileDocuments) SetBuffer(source *url.URL, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffers[source.String()] = content
}

// ClearBuffer drops the buffer for source, typically after a save.
func (d *FileDocuments) ClearBuffer(source *url.URL) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.buffers, source.String())
}

// SetActiveLine records the cursor line for source.
func (d *FileDocuments) SetActiveLine(source *url.URL, line int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines[source.String()] = line
}
