package adapter_bubbletea

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ionut-t/goblocks/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) Write(text string) error {
	c.text = text
	return nil
}

func (c *fakeClipboard) Read() (string, error) {
	return c.text, c.err
}

func newTestModel(t *testing.T, texts ...string) Model {
	t.Helper()

	m := NewWithDocument(core.NewDocumentFromText(texts...), 40, 10)
	m.Focus()
	return m
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Typing(t *testing.T) {
	m := newTestModel(t, "")
	m = update(m, runes("h"), runes("ey"))

	assert.Equal(t, []string{"hey"}, m.Document().Texts())
	assert.Contains(t, m.View(), "hey")
}

func TestModel_IgnoresKeysWhenBlurred(t *testing.T) {
	m := newTestModel(t, "")
	m.Blur()
	m = update(m, runes("x"))

	assert.False(t, m.IsFocused())
	assert.Equal(t, []string{""}, m.Document().Texts())
}

func TestModel_EnterAndBackspace(t *testing.T) {
	m := newTestModel(t, "")
	m = update(m,
		runes("ab"),
		tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Equal(t, []string{"a", "b"}, m.Document().Texts())

	m = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, []string{"ab"}, m.Document().Texts())
	assert.Equal(t, 1, m.Canvas().FocusedElement().Caret())
}

func TestModel_SoftBreak(t *testing.T) {
	m := newTestModel(t, "")
	m = update(m,
		runes("a"),
		tea.KeyMsg{Type: tea.KeyEnter, Alt: true},
		runes("b"),
	)

	assert.Equal(t, []string{"a\nb"}, m.Document().Texts())
}

func TestModel_BracketedPaste(t *testing.T) {
	m := newTestModel(t, "")
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("one\r\ntwo"), Paste: true})

	assert.Equal(t, []string{"one\ntwo"}, m.Document().Texts())
}

func TestModel_ClipboardPaste(t *testing.T) {
	m := newTestModel(t, "")
	m.WithClipboard(&fakeClipboard{text: "from clipboard"})

	cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlV})

	assert.Nil(t, cmd)
	assert.Equal(t, []string{"from clipboard"}, m.Document().Texts())
}

func TestModel_ClipboardError(t *testing.T) {
	m := newTestModel(t, "")
	m.WithClipboard(&fakeClipboard{err: errors.New("no display")})

	cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlV})
	require.NotNil(t, cmd)

	msg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	assert.Equal(t, core.ErrClipboardReadId, msg.ID)
	assert.ErrorIs(t, msg.Error, core.ErrClipboardRead)

	m = update(m, msg)
	assert.Contains(t, m.View(), "no display")
}

func TestModel_SaveEmitsSaveMsg(t *testing.T) {
	m := newTestModel(t, "hello")
	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	got := m.listenForCanvasUpdate()()
	sig, ok := got.(signalMsg)
	require.True(t, ok)

	save, ok := sig.msg.(SaveMsg)
	require.True(t, ok)

	doc, err := core.LoadDocument(strings.NewReader(save.Content))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, doc.Texts())
}

func TestModel_SignalsAreTranslated(t *testing.T) {
	m := newTestModel(t, "")
	m = update(m, runes("x"))

	sig, ok := m.listenForCanvasUpdate()().(signalMsg)
	require.True(t, ok)

	changed, ok := sig.msg.(ContentChangedMsg)
	require.True(t, ok)
	_, b := m.Canvas().Focused()
	assert.Equal(t, b.ID(), changed.BlockID)
	assert.Equal(t, "x", changed.Content)
}

func TestModel_Messages(t *testing.T) {
	m := newTestModel(t, "")
	m.DispatchMessage("all good", time.Minute)
	assert.Contains(t, m.View(), "all good")

	m = update(m, clearMsg{})
	assert.NotContains(t, m.View(), "all good")
}

func TestModel_PlaceholderAndGutter(t *testing.T) {
	m := newTestModel(t, "", "second")
	m.SetPlaceholder("Type here")

	view := m.View()
	assert.Contains(t, view, "ype here")
	assert.Contains(t, view, "▌")
	assert.Contains(t, view, "second")
}
