package core

// Element is the rendered, editable surface bound to one block.
//
// Its visible text equals the block content, except while an input event is
// in flight. Then the element is the source of truth until the session
// writes it back to the block.
type Element interface {
	// IsPlaceholder reports whether the only child is the placeholder line
	// break used to keep an empty element from collapsing.
	IsPlaceholder() bool
	RenderedText() string
	// ClientRects returns one rectangle per rendered line box, top to bottom.
	ClientRects() []Rect

	RenderPlaceholder()
	RenderText(text string)

	// InsertText inserts text at the current selection using the platform's
	// own insertion, replacing a non-collapsed range.
	InsertText(text string)
}

// SelectionState is the caret or selection at the time of the query.
type SelectionState struct {
	IsCollapsed bool
	// Rect is nil when no range rectangle can be computed.
	Rect *Rect
}

type SelectionProvider interface {
	Selection() SelectionState
}

// TextSplit is the element text on either side of the selection.
type TextSplit struct {
	Before string
	After  string
}

type TextSplitProvider interface {
	Manipulation(el Element) TextSplit
}

// Splitter is implemented by elements that know their own selection.
type Splitter interface {
	Split() TextSplit
}

// ElementSplitter asks elements implementing Splitter for their split and
// otherwise assumes the caret sits at the end of the rendered text.
type ElementSplitter struct{}

func (ElementSplitter) Manipulation(el Element) TextSplit {
	if el == nil {
		return TextSplit{}
	}
	if s, ok := el.(Splitter); ok {
		return s.Split()
	}
	if el.IsPlaceholder() {
		return TextSplit{}
	}
	return TextSplit{Before: el.RenderedText()}
}

// Clipboard MIME types.
const (
	MIMETextPlain = "text/plain"
	MIMETextHTML  = "text/html"
)

// ClipboardData is the payload of a paste event.
type ClipboardData interface {
	GetData(format string) string
}

// MIMEData is a ClipboardData backed by a map of format to payload.
type MIMEData map[string]string

func (d MIMEData) GetData(format string) string {
	return d[format]
}

// PlainText wraps s as text/plain clipboard data.
func PlainText(s string) MIMEData {
	return MIMEData{MIMETextPlain: s}
}

// Clipboard provides access to the system clipboard.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}
