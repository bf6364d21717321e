package core

import (
	"strings"

	"github.com/rivo/uniseg"
)

const tabWidth = 4

// VisualRow is one rendered line box of a TextElement.
type VisualRow struct {
	Start, End int    // grapheme range [Start, End); End includes a hard "\n"
	Text       string // row text without the hard line break
	Cells      int    // display width in terminal cells
	Line       int    // hard line index
	LineCol    int    // rune column of Start within its hard line
}

// TextElement is a grapheme-aware editable text surface laid out in terminal
// cells. It plays the part of the editable element for terminal hosts: it
// implements Element, SelectionProvider and Splitter, and carries the native
// caret movement and deletion that run when a session passes an event
// through.
type TextElement struct {
	graphemes   []string
	placeholder bool

	anchor, focus int
	preferredX    int
	hasPreferred  bool

	width   int
	metrics Metrics
	top     float64
	left    float64

	rows  []VisualRow
	dirty bool
}

// NewTextElement creates an empty element wrapping at width cells. A width of
// zero leaves the element without layout until SetWidth is called.
func NewTextElement(width int, metrics Metrics) *TextElement {
	return &TextElement{
		placeholder: true,
		width:       max(width, 0),
		metrics:     normalizeMetrics(metrics),
		dirty:       true,
	}
}

func segment(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

func graphemeWidth(g string) int {
	switch g {
	case "\n":
		return 0
	case "\t":
		return tabWidth
	}
	return uniseg.StringWidth(g)
}

func cellsOf(gs []string) int {
	n := 0
	for _, g := range gs {
		n += graphemeWidth(g)
	}
	return n
}

// --- Element ---

func (t *TextElement) IsPlaceholder() bool { return t.placeholder }

func (t *TextElement) RenderedText() string {
	if t.placeholder {
		return "\n"
	}
	return strings.Join(t.graphemes, "")
}

func (t *TextElement) ClientRects() []Rect {
	if t.width <= 0 {
		return nil
	}
	rows := t.layout()
	rects := make([]Rect, len(rows))
	for i, r := range rows {
		top := t.top + float64(i)*t.metrics.LineHeight
		rects[i] = Rect{
			Top:    top,
			Bottom: top + t.metrics.LineHeight,
			Left:   t.left,
			Right:  t.left + float64(r.Cells)*t.metrics.CellWidth,
		}
	}
	return rects
}

func (t *TextElement) RenderPlaceholder() {
	t.graphemes = nil
	t.placeholder = true
	t.anchor, t.focus = 0, 0
	t.hasPreferred = false
	t.dirty = true
}

func (t *TextElement) RenderText(text string) {
	if text == "" {
		t.RenderPlaceholder()
		return
	}
	t.graphemes = segment(text)
	t.placeholder = false
	t.anchor = min(t.anchor, len(t.graphemes))
	t.focus = min(t.focus, len(t.graphemes))
	t.dirty = true
}

func (t *TextElement) InsertText(text string) {
	start, end := t.SelectionRange()
	before := strings.Join(t.graphemes[:start], "") + text
	after := strings.Join(t.graphemes[end:], "")

	t.graphemes = segment(before + after)
	caret := len(segment(before))
	t.anchor, t.focus = caret, caret
	t.placeholder = len(t.graphemes) == 0
	t.hasPreferred = false
	t.dirty = true
}

// --- SelectionProvider / Splitter ---

func (t *TextElement) Selection() SelectionState {
	state := SelectionState{IsCollapsed: t.anchor == t.focus}
	if t.width <= 0 {
		return state
	}

	rows := t.layout()
	start, end := t.SelectionRange()
	rs, xs := t.rowAndCell(start)
	re, xe := t.rowAndCell(end)

	rect := Rect{
		Top:    t.top + float64(rs)*t.metrics.LineHeight,
		Bottom: t.top + float64(re+1)*t.metrics.LineHeight,
		Left:   t.left + float64(xs)*t.metrics.CellWidth,
		Right:  t.left + float64(xe)*t.metrics.CellWidth,
	}
	if rs != re {
		widest := 0
		for _, r := range rows[rs : re+1] {
			widest = max(widest, r.Cells)
		}
		rect.Left = t.left
		rect.Right = t.left + float64(widest)*t.metrics.CellWidth
	}
	state.Rect = &rect
	return state
}

func (t *TextElement) Split() TextSplit {
	if t.placeholder {
		return TextSplit{}
	}
	start, end := t.SelectionRange()
	return TextSplit{
		Before: strings.Join(t.graphemes[:start], ""),
		After:  strings.Join(t.graphemes[end:], ""),
	}
}

// --- layout ---

func (t *TextElement) SetWidth(width int) {
	width = max(width, 0)
	if width == t.width {
		return
	}
	t.width = width
	t.dirty = true
}

func (t *TextElement) Width() int { return t.width }

// SetOrigin positions the element's top-left corner in pixels.
func (t *TextElement) SetOrigin(top, left float64) {
	t.top = top
	t.left = left
}

func (t *TextElement) Origin() (top, left float64) { return t.top, t.left }

// Height returns the number of visual rows.
func (t *TextElement) Height() int { return len(t.layout()) }

// PixelHeight returns the height of all line boxes in pixels.
func (t *TextElement) PixelHeight() float64 {
	return float64(t.Height()) * t.metrics.LineHeight
}

func (t *TextElement) VisualRows() []VisualRow {
	rows := t.layout()
	out := make([]VisualRow, len(rows))
	copy(out, rows)
	return out
}

func (t *TextElement) layout() []VisualRow {
	if !t.dirty && t.rows != nil {
		return t.rows
	}

	gs := t.graphemes
	n := len(gs)
	rows := make([]VisualRow, 0, 1)

	line, lineCol := 0, 0
	start, cells, lastSpace := 0, 0, -1

	push := func(end int) {
		text := strings.Join(gs[start:end], "")
		text = strings.TrimSuffix(text, "\n")
		rows = append(rows, VisualRow{
			Start:   start,
			End:     end,
			Text:    text,
			Cells:   cellsOf(gs[start:end]),
			Line:    line,
			LineCol: lineCol,
		})
	}

	for i := 0; i < n; {
		g := gs[i]
		if g == "\n" {
			push(i + 1)
			line++
			lineCol = 0
			start, cells, lastSpace = i+1, 0, -1
			i++
			continue
		}

		w := graphemeWidth(g)
		if t.width > 0 && cells+w > t.width && i > start {
			breakAt := i
			if lastSpace >= start {
				breakAt = lastSpace + 1
			}
			push(breakAt)
			lineCol += len([]rune(strings.Join(gs[start:breakAt], "")))
			start = breakAt
			cells = cellsOf(gs[start:i])
			lastSpace = -1
			continue
		}

		if g == " " {
			lastSpace = i
		}
		cells += w
		i++
	}
	push(n)

	t.rows = rows
	t.dirty = false
	return rows
}

// rowOf returns the visual row the caret index i is displayed on.
func (t *TextElement) rowOf(i int) int {
	rows := t.layout()
	for r := len(rows) - 1; r > 0; r-- {
		if rows[r].Start <= i {
			return r
		}
	}
	return 0
}

func (t *TextElement) rowAndCell(i int) (row, cell int) {
	row = t.rowOf(i)
	r := t.layout()[row]
	end := min(i, len(t.graphemes))
	if end < r.Start {
		return row, 0
	}
	return row, cellsOf(t.graphemes[r.Start:end])
}

// rowLimit is the last caret index that still displays on row r.
func (t *TextElement) rowLimit(r int) int {
	rows := t.layout()
	if r == len(rows)-1 {
		return rows[r].End
	}
	return max(rows[r].End-1, rows[r].Start)
}

// indexAt returns the caret index on row r closest to cell x.
func (t *TextElement) indexAt(r, x int) int {
	row := t.layout()[r]
	limit := t.rowLimit(r)
	cum := 0
	for i := row.Start; i < limit; i++ {
		w := graphemeWidth(t.graphemes[i])
		if 2*(cum+w) > 2*x+w {
			return i
		}
		cum += w
	}
	return limit
}

// --- caret ---

// Caret returns the focus end of the selection.
func (t *TextElement) Caret() int { return t.focus }

// Len returns the number of grapheme clusters.
func (t *TextElement) Len() int { return len(t.graphemes) }

// SelectionRange returns the ordered selection bounds.
func (t *TextElement) SelectionRange() (start, end int) {
	return min(t.anchor, t.focus), max(t.anchor, t.focus)
}

// CaretPosition returns the visual row and cell of the caret.
func (t *TextElement) CaretPosition() (row, cell int) {
	return t.rowAndCell(t.focus)
}

func (t *TextElement) SetCaret(i int) {
	t.SetSelection(i, i)
}

func (t *TextElement) SetSelection(anchor, focus int) {
	n := len(t.graphemes)
	t.anchor = min(max(anchor, 0), n)
	t.focus = min(max(focus, 0), n)
	t.hasPreferred = false
}

// PlaceCaret collapses the caret on the first (SideTop) or last (SideBottom)
// row, as close as possible to the horizontal pixel position x.
func (t *TextElement) PlaceCaret(x float64, side Side) {
	r := 0
	if side == SideBottom {
		r = len(t.layout()) - 1
	}
	cell := max(int((x-t.left)/t.metrics.CellWidth+0.5), 0)
	i := t.indexAt(r, cell)
	t.anchor, t.focus = i, i
	t.preferredX = cell
	t.hasPreferred = true
}

func (t *TextElement) moveTo(i int, extend bool) {
	t.focus = i
	if !extend {
		t.anchor = i
	}
}

func (t *TextElement) MoveLeft(extend bool) {
	t.hasPreferred = false
	if !extend && t.anchor != t.focus {
		start, _ := t.SelectionRange()
		t.moveTo(start, false)
		return
	}
	t.moveTo(max(t.focus-1, 0), extend)
}

func (t *TextElement) MoveRight(extend bool) {
	t.hasPreferred = false
	if !extend && t.anchor != t.focus {
		_, end := t.SelectionRange()
		t.moveTo(end, false)
		return
	}
	t.moveTo(min(t.focus+1, len(t.graphemes)), extend)
}

func (t *TextElement) MoveUp(extend bool) {
	row, cell := t.rowAndCell(t.focus)
	if !t.hasPreferred {
		t.preferredX = cell
		t.hasPreferred = true
	}
	if row == 0 {
		t.moveTo(0, extend)
		return
	}
	t.moveTo(t.indexAt(row-1, t.preferredX), extend)
}

func (t *TextElement) MoveDown(extend bool) {
	row, cell := t.rowAndCell(t.focus)
	if !t.hasPreferred {
		t.preferredX = cell
		t.hasPreferred = true
	}
	if row == len(t.layout())-1 {
		t.moveTo(len(t.graphemes), extend)
		return
	}
	t.moveTo(t.indexAt(row+1, t.preferredX), extend)
}

// MoveHome moves to the start of the hard line.
func (t *TextElement) MoveHome(extend bool) {
	t.hasPreferred = false
	i := t.focus
	for i > 0 && t.graphemes[i-1] != "\n" {
		i--
	}
	t.moveTo(i, extend)
}

// MoveEnd moves to the end of the hard line.
func (t *TextElement) MoveEnd(extend bool) {
	t.hasPreferred = false
	i := t.focus
	for i < len(t.graphemes) && t.graphemes[i] != "\n" {
		i++
	}
	t.moveTo(i, extend)
}

// --- native editing ---

func (t *TextElement) deleteRange(start, end int) {
	t.graphemes = append(t.graphemes[:start], t.graphemes[end:]...)
	t.anchor, t.focus = start, start
	t.placeholder = len(t.graphemes) == 0
	t.hasPreferred = false
	t.dirty = true
}

// DeleteBackward deletes the selection or the grapheme before the caret.
// It reports whether the text changed.
func (t *TextElement) DeleteBackward() bool {
	start, end := t.SelectionRange()
	if start != end {
		t.deleteRange(start, end)
		return true
	}
	if start == 0 {
		return false
	}
	t.deleteRange(start-1, start)
	return true
}

// DeleteForward deletes the selection or the grapheme after the caret.
func (t *TextElement) DeleteForward() bool {
	start, end := t.SelectionRange()
	if start != end {
		t.deleteRange(start, end)
		return true
	}
	if start >= len(t.graphemes) {
		return false
	}
	t.deleteRange(start, start+1)
	return true
}
