package markdocs

import (
	"context"
	"net/url"
)

// Position is a zero-based line and character offset in a document.
type Position struct {
	Line      int
	Character int
}

// Range spans two positions.
type Range struct {
	Start Position
	End   Position
}

// RevealType controls where a revealed range is scrolled to.
type RevealType int

// Reveal placements.
const (
	RevealInCenter RevealType = iota
	RevealAtTop
)

// ViewColumn is the editor column a view opens in.
type ViewColumn int

// Editor columns.
const (
	ColumnOne ViewColumn = 1
	ColumnTwo ViewColumn = 2
)

// TextEditor is an open editor showing a document.
type TextEditor interface {
	Document() *url.URL
	LanguageID() string
	// LineText returns the text of a zero-based line, or "" when out of range.
	LineText(line int) string
	RevealRange(r Range, how RevealType)
	SetSelection(p Position)
}

// Editor is the host editor.
type Editor interface {
	ActiveEditor() (TextEditor, bool)
	VisibleEditors() []TextEditor
	// ShowDocument opens source and focuses its editor.
	ShowDocument(ctx context.Context, source *url.URL) (TextEditor, error)
	// ShowPreview displays a preview resource.
	ShowPreview(ctx context.Context, preview *url.URL, column ViewColumn, title string) error
	// PostMessage sends a message to a displayed preview.
	PostMessage(preview *url.URL, msg any) error
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}
