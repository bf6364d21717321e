package adapter_bubbletea

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ionut-t/goblocks/core"
	"github.com/stretchr/testify/assert"
)

func TestConvertBubbleKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.KeyEvent
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, core.KeyEvent{Rune: 'a'}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}, core.KeyEvent{Rune: 'b', Modifiers: core.ModAlt}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.KeyEvent{Key: core.KeyEnter}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.KeyEvent{Key: core.KeySpace, Rune: ' '}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, core.KeyEvent{Key: core.KeyBackspace}},
		{"shift left", tea.KeyMsg{Type: tea.KeyShiftLeft}, core.KeyEvent{Key: core.KeyLeft, Modifiers: core.ModShift}},
		{"shift end", tea.KeyMsg{Type: tea.KeyShiftEnd}, core.KeyEvent{Key: core.KeyEnd, Modifiers: core.ModShift}},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.KeyEvent{Key: core.KeyUp}},
		{"ctrl chord", tea.KeyMsg{Type: tea.KeyCtrlA}, core.KeyEvent{Key: core.KeyUnknown, Modifiers: core.ModCtrl}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertBubbleKey(tt.msg))
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", normalizeNewlines("a\r\nb\rc\n"))
}
