package adapter_bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ionut-t/goblocks/core"
)

// Convert Bubbletea key to core.KeyEvent
func convertBubbleKey(msg tea.KeyMsg) core.KeyEvent {
	key := core.KeyEvent{}

	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		key.Rune = msg.Runes[0]
	}

	if msg.Alt {
		key.Modifiers |= core.ModAlt
	}

	switch msg.Type {
	case tea.KeyEnter:
		key.Key = core.KeyEnter
	case tea.KeySpace:
		key.Key = core.KeySpace
		key.Rune = ' '
	case tea.KeyEsc:
		key.Key = core.KeyEscape
	case tea.KeyBackspace:
		key.Key = core.KeyBackspace
	case tea.KeyTab:
		key.Key = core.KeyTab
	case tea.KeyUp:
		key.Key = core.KeyUp
	case tea.KeyDown:
		key.Key = core.KeyDown
	case tea.KeyLeft:
		key.Key = core.KeyLeft
	case tea.KeyRight:
		key.Key = core.KeyRight
	case tea.KeyShiftUp:
		key.Key = core.KeyUp
		key.Modifiers |= core.ModShift
	case tea.KeyShiftDown:
		key.Key = core.KeyDown
		key.Modifiers |= core.ModShift
	case tea.KeyShiftLeft:
		key.Key = core.KeyLeft
		key.Modifiers |= core.ModShift
	case tea.KeyShiftRight:
		key.Key = core.KeyRight
		key.Modifiers |= core.ModShift
	case tea.KeyHome:
		key.Key = core.KeyHome
	case tea.KeyEnd:
		key.Key = core.KeyEnd
	case tea.KeyShiftHome:
		key.Key = core.KeyHome
		key.Modifiers |= core.ModShift
	case tea.KeyShiftEnd:
		key.Key = core.KeyEnd
		key.Modifiers |= core.ModShift
	case tea.KeyDelete:
		key.Key = core.KeyDelete
	case tea.KeyRunes:
	default:
		// Remaining key types are control sequences.
		key.Modifiers |= core.ModCtrl
	}

	return key
}

// normalizeNewlines converts pasted line endings to "\n".
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
