package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// --- KeyCode, KeyModifiers, Key ---

// KeyCode represents non-character keys
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyBackspace

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Keys the element handles natively
	KeyTab
	KeyEscape
	KeySpace
	KeyHome
	KeyEnd
	KeyDelete
)

// Legacy numeric key codes accepted by DecodeKey when no usable name is given.
const (
	LegacyCodeBackspace = 8
	LegacyCodeEnter     = 13
	LegacyCodeLeft      = 37
	LegacyCodeUp        = 38
	LegacyCodeRight     = 39
	LegacyCodeDown      = 40
)

// KeyModifiers represents modifier keys held during a keystroke
type KeyModifiers uint8

const (
	ModNone KeyModifiers = 0
	ModCtrl KeyModifiers = 1 << iota
	ModAlt
	ModShift
)

// KeyEvent represents a keyboard input event
type KeyEvent struct {
	Rune      rune
	Key       KeyCode
	Modifiers KeyModifiers
}

// Shift reports whether the shift modifier was held.
func (k KeyEvent) Shift() bool {
	return k.Modifiers&ModShift != 0
}

var namedKeys = map[string]KeyCode{
	"arrowleft":  KeyLeft,
	"left":       KeyLeft,
	"arrowright": KeyRight,
	"right":      KeyRight,
	"arrowup":    KeyUp,
	"up":         KeyUp,
	"arrowdown":  KeyDown,
	"down":       KeyDown,
	"backspace":  KeyBackspace,
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"tab":        KeyTab,
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"home":       KeyHome,
	"end":        KeyEnd,
	"delete":     KeyDelete,
	"del":        KeyDelete,
}

var legacyKeys = map[int]KeyCode{
	LegacyCodeBackspace: KeyBackspace,
	LegacyCodeEnter:     KeyEnter,
	LegacyCodeLeft:      KeyLeft,
	LegacyCodeUp:        KeyUp,
	LegacyCodeRight:     KeyRight,
	LegacyCodeDown:      KeyDown,
}

// DecodeKey normalizes a raw key description into a KeyEvent.
//
// The named key wins when it is recognized. A single character name decodes
// to a rune key. Otherwise the legacy numeric code is consulted, and anything
// left over decodes to KeyUnknown.
func DecodeKey(name string, code int, mods KeyModifiers) KeyEvent {
	ev := KeyEvent{Modifiers: mods}

	if k, ok := namedKeys[strings.ToLower(name)]; ok {
		ev.Key = k
		return ev
	}

	if name == " " {
		ev.Key = KeySpace
		ev.Rune = ' '
		return ev
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		ev.Rune = r
		return ev
	}

	if k, ok := legacyKeys[code]; ok {
		ev.Key = k
	}

	return ev
}

// String returns a string representation of a Key
func (k KeyEvent) String() string {
	var parts []string

	if k.Modifiers&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Modifiers&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if k.Modifiers&ModShift != 0 {
		parts = append(parts, "Shift")
	}

	if k.Rune != 0 && k.Key != KeySpace {
		parts = append(parts, string(k.Rune))
	} else {
		switch k.Key {
		case KeyEnter:
			parts = append(parts, "Enter")
		case KeyTab:
			parts = append(parts, "Tab")
		case KeyBackspace:
			parts = append(parts, "Backspace")
		case KeyEscape:
			parts = append(parts, "Escape")
		case KeySpace:
			parts = append(parts, "Space")
		case KeyUp:
			parts = append(parts, "Up")
		case KeyDown:
			parts = append(parts, "Down")
		case KeyLeft:
			parts = append(parts, "Left")
		case KeyRight:
			parts = append(parts, "Right")
		case KeyHome:
			parts = append(parts, "Home")
		case KeyEnd:
			parts = append(parts, "End")
		case KeyDelete:
			parts = append(parts, "Delete")
		case KeyUnknown:
			parts = append(parts, "Unknown")
		default:
			parts = append(parts, fmt.Sprintf("SpecialKey(%d)", k.Key))
		}
	}

	return strings.Join(parts, "+")
}
