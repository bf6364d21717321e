package adapter_bubbletea

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the adapter handles before keys reach the canvas.
//
// Terminals rarely report shift+enter, so soft line breaks have alt/ctrl
// fallbacks.
type KeyMap struct {
	Paste     key.Binding
	Save      key.Binding
	SoftBreak key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SoftBreak: key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"), key.WithHelp("alt+enter", "line break")),
	}
}
