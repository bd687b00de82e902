package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-markdocs/internal/config"
	"github.com/alnah/go-markdocs/internal/fileutil"
)

// DocsetContext is the path context sent with a render request.
type DocsetContext struct {
	Root             string // docset root, forward slashes
	RelativeFilePath string // document path relative to Root
}

// Workspace lists the folders open in the editor. The first folder is the
// workspace root.
type Workspace struct {
	Folders []string
}

// NewWorkspace builds a Workspace from folder paths, skipping empty ones.
func NewWorkspace(folders ...string) Workspace {
	var w Workspace
	for _, f := range folders {
		if f != "" {
			w.Folders = append(w.Folders, filepath.Clean(f))
		}
	}
	return w
}

// Root returns the workspace root, or "" when no folder is open.
func (w Workspace) Root() string {
	if len(w.Folders) == 0 {
		return ""
	}
	return w.Folders[0]
}

// FolderFor returns the innermost workspace folder containing path.
func (w Workspace) FolderFor(path string) (string, bool) {
	path = filepath.Clean(path)
	best := ""
	for _, f := range w.Folders {
		if !isWithin(path, f) {
			continue
		}
		if len(f) > len(best) {
			best = f
		}
	}
	return best, best != ""
}

func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// ResolveDocset computes the DocsetContext for the document at docPath.
//
// Without a workspace, the document's directory is the root. Otherwise the
// nearest ancestor holding marker is the root, falling back to the
// workspace root.
func ResolveDocset(docPath string, ws Workspace, marker string) (DocsetContext, error) {
	if marker == "" {
		marker = config.DefaultDocsetMarker
	}
	dir := filepath.Dir(docPath)

	if ws.Root() == "" {
		return DocsetContext{
			Root:             filepath.ToSlash(dir),
			RelativeFilePath: filepath.Base(docPath),
		}, nil
	}

	root, ok := fileutil.FindUpward(dir, marker)
	if !ok {
		root = ws.Root()
	}

	rel, err := filepath.Rel(root, docPath)
	if err != nil {
		return DocsetContext{}, fmt.Errorf("relative path of %s under %s: %w", docPath, root, err)
	}

	return DocsetContext{
		Root:             filepath.ToSlash(root),
		RelativeFilePath: rel,
	}, nil
}
