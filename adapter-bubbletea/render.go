package adapter_bubbletea

import (
	"strings"

	"github.com/ionut-t/goblocks/adapter-bubbletea/highlighter"
	"github.com/ionut-t/goblocks/core"
	"github.com/rivo/uniseg"
)

// refresh re-renders the canvas into the viewport and keeps the caret visible.
func (m *Model) refresh() {
	content, cursorLine := m.renderContent()
	m.viewport.SetContent(content)
	m.followCursor(cursorLine)
}

func (m *Model) followCursor(line int) {
	h := m.viewport.Height
	if h <= 0 || line < 0 {
		return
	}

	y := m.viewport.YOffset
	if line < y {
		m.viewport.SetYOffset(line)
		return
	}
	if line >= y+h {
		m.viewport.SetYOffset(line - h + 1)
	}
}

// renderContent renders every block and returns the screen line of the caret.
func (m *Model) renderContent() (string, int) {
	var sb strings.Builder

	focusedIdx, _ := m.canvas.Focused()
	cursorLine := -1
	line := 0

	for i, b := range m.canvas.Document().Blocks() {
		el, ok := m.canvas.Element(b.ID())
		if !ok {
			continue
		}

		isFocusedBlock := i == focusedIdx
		showCursor := isFocusedBlock && m.isFocused
		caretRow, _ := el.CaretPosition()

		gutter := m.theme.GutterStyle.Render(strings.Repeat(" ", gutterWidth))
		if isFocusedBlock {
			gutter = m.theme.FocusedGutterStyle.Render("▌ ")
		}

		var lines [][]highlighter.TokenPosition
		if m.highlighter != nil && !el.IsPlaceholder() {
			for _, tokens := range m.highlighter.Tokenize(b.Content()) {
				lines = append(lines, highlighter.GetTokenPositions(tokens))
			}
		}

		for r, row := range el.VisualRows() {
			if line > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(gutter)

			if el.IsPlaceholder() {
				m.renderPlaceholder(&sb, showCursor)
			} else {
				var positions []highlighter.TokenPosition
				if row.Line < len(lines) {
					positions = lines[row.Line]
				}
				m.renderRow(&sb, el, row, positions, showCursor && r == caretRow)
			}

			if showCursor && r == caretRow {
				cursorLine = line
			}
			line++
		}
	}

	return sb.String(), cursorLine
}

func (m *Model) renderPlaceholder(sb *strings.Builder, showCursor bool) {
	if !showCursor {
		return
	}
	if m.placeholder == "" {
		sb.WriteString(m.theme.CursorStyle.Render(" "))
		return
	}

	first, rest := "", ""
	g := uniseg.NewGraphemes(m.placeholder)
	if g.Next() {
		first = g.Str()
		rest = m.placeholder[len(first):]
	}
	sb.WriteString(m.theme.CursorStyle.Render(first))
	sb.WriteString(m.theme.PlaceholderStyle.Render(rest))
}

func (m *Model) renderRow(
	sb *strings.Builder,
	el *core.TextElement,
	row core.VisualRow,
	positions []highlighter.TokenPosition,
	caretOnRow bool,
) {
	selStart, selEnd := el.SelectionRange()
	caret := el.Caret()
	collapsed := selStart == selEnd

	idx := row.Start
	col := row.LineCol
	cursorDrawn := false

	g := uniseg.NewGraphemes(row.Text)
	for g.Next() {
		cluster := g.Str()
		if cluster == "\t" {
			cluster = strings.Repeat(" ", 4)
		}

		style := m.theme.TextStyle
		if m.highlighter != nil {
			if tok, ok := highlighter.FindTokenAtPosition(positions, col); ok {
				style = m.highlighter.GetStyleForToken(tok.Type)
			}
		}

		switch {
		case caretOnRow && collapsed && idx == caret:
			style = m.theme.CursorStyle
			cursorDrawn = true
		case idx >= selStart && idx < selEnd:
			style = style.Background(m.theme.SelectionStyle.GetBackground())
		}

		sb.WriteString(style.Render(cluster))
		idx++
		col += len(g.Runes())
	}

	if caretOnRow && collapsed && !cursorDrawn && caret >= idx {
		sb.WriteString(m.theme.CursorStyle.Render(" "))
	}
}

