package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, width int, texts ...string) *Canvas {
	t.Helper()

	c := NewCanvas(NewDocumentFromText(texts...), CanvasConfig{Width: width})
	drainSignals(c)
	return c
}

func drainSignals(c *Canvas) []Signal {
	var out []Signal
	for {
		select {
		case s := <-c.updateSignal:
			out = append(out, s)
		default:
			return out
		}
	}
}

func typeText(c *Canvas, text string) {
	for _, r := range text {
		c.HandleKey(KeyEvent{Rune: r})
	}
}

func focusAt(t *testing.T, c *Canvas, block, caret int) {
	t.Helper()

	require.NoError(t, c.Focus(block))
	c.FocusedElement().SetCaret(caret)
	drainSignals(c)
}

func TestCanvas_MountsEveryBlock(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "one", "", "three")

	for _, b := range c.Document().Blocks() {
		el, ok := c.Element(b.ID())
		require.True(t, ok)
		s, ok := c.Session(b.ID())
		require.True(t, ok)
		assert.True(t, s.Mounted())
		assert.Equal(t, b.Content(), s.ElementText())
		assert.Equal(t, b.Content() == "", el.IsPlaceholder())
	}

	// Elements are stacked vertically.
	third, _ := c.Document().At(2)
	el, _ := c.Element(third.ID())
	top, _ := el.Origin()
	assert.Equal(t, 40.0, top)
}

func TestCanvas_NilDocument(t *testing.T) {
	t.Parallel()

	c := NewCanvas(nil, CanvasConfig{})
	assert.Equal(t, 1, c.Document().Len())
	assert.Equal(t, defaultCanvasWidth, c.Width())
	assert.Equal(t, DefaultMetrics, c.Metrics())
}

func TestCanvas_Typing(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "")
	typeText(c, "hi")

	_, b := c.Focused()
	assert.Equal(t, "hi", b.Content())
	assert.Equal(t, "h", b.LastContent())
	assert.False(t, c.FocusedElement().IsPlaceholder())

	signals := drainSignals(c)
	require.Len(t, signals, 2)
	id, content := signals[1].(ContentChangedSignal).Value()
	assert.Equal(t, b.ID(), id)
	assert.Equal(t, "hi", content)

	// Ctrl chords never insert text.
	c.HandleKey(KeyEvent{Rune: 'x', Modifiers: ModCtrl})
	assert.Equal(t, "hi", b.Content())
}

func TestCanvas_EnterSplitsBlock(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "hello world")
	focusAt(t, c, 0, 5)

	c.HandleKey(KeyEvent{Key: KeyEnter})

	assert.Equal(t, []string{"hello", " world"}, c.Document().Texts())
	i, b := c.Focused()
	assert.Equal(t, 1, i)
	assert.Equal(t, " world", b.Content())
	assert.Zero(t, c.FocusedElement().Caret())

	first, _ := c.Document().At(0)
	el, _ := c.Element(first.ID())
	assert.Equal(t, "hello", el.RenderedText())

	var inserted []BlockInsertedSignal
	for _, s := range drainSignals(c) {
		if s, ok := s.(BlockInsertedSignal); ok {
			inserted = append(inserted, s)
		}
	}
	require.Len(t, inserted, 1)
	id, index := inserted[0].Value()
	assert.Equal(t, b.ID(), id)
	assert.Equal(t, 1, index)
}

func TestCanvas_EnterOnEmptyBlock(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "")
	c.HandleKey(KeyEvent{Key: KeyEnter})

	assert.Equal(t, []string{"", ""}, c.Document().Texts())
	i, _ := c.Focused()
	assert.Equal(t, 1, i)
	assert.True(t, c.FocusedElement().IsPlaceholder())
}

func TestCanvas_ShiftEnterInsertsLineBreak(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "ab")
	focusAt(t, c, 0, 1)

	c.HandleKey(KeyEvent{Key: KeyEnter, Modifiers: ModShift})

	assert.Equal(t, []string{"a\nb"}, c.Document().Texts())
	assert.Equal(t, 2, c.FocusedElement().Height())
}

func TestCanvas_BackspaceMergesIntoPrevious(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "ab", "cd")
	second, _ := c.Document().At(1)
	focusAt(t, c, 1, 0)

	c.HandleKey(KeyEvent{Key: KeyBackspace})

	assert.Equal(t, []string{"abcd"}, c.Document().Texts())
	i, b := c.Focused()
	assert.Equal(t, 0, i)
	assert.Equal(t, "ab", b.LastContent())
	assert.Equal(t, 2, c.FocusedElement().Caret())
	assert.Equal(t, "abcd", c.FocusedElement().RenderedText())

	_, ok := c.Session(second.ID())
	assert.False(t, ok, "the removed block is unmounted")

	var deleted *BlockDeletedSignal
	for _, s := range drainSignals(c) {
		if s, ok := s.(BlockDeletedSignal); ok {
			deleted = &s
		}
	}
	require.NotNil(t, deleted)
	gone, merged := deleted.Value()
	assert.Equal(t, second.ID(), gone)
	assert.Equal(t, b.ID(), merged)
}

func TestCanvas_BackspaceEmptyBlock(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "ab", "")
	focusAt(t, c, 1, 0)

	c.HandleKey(KeyEvent{Key: KeyBackspace})

	assert.Equal(t, []string{"ab"}, c.Document().Texts())
	assert.Equal(t, 2, c.FocusedElement().Caret())
}

func TestCanvas_BackspaceOnFirstBlock(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "ab", "cd")
	focusAt(t, c, 0, 0)

	c.HandleKey(KeyEvent{Key: KeyBackspace})

	assert.Equal(t, []string{"ab", "cd"}, c.Document().Texts())
	i, _ := c.Focused()
	assert.Zero(t, i)
}

func TestCanvas_BackspaceDeletesLastCharacter(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "x", "y")
	focusAt(t, c, 1, 1)

	c.HandleKey(KeyEvent{Key: KeyBackspace})

	assert.Equal(t, []string{"x", ""}, c.Document().Texts())
	assert.True(t, c.FocusedElement().IsPlaceholder())

	// The next backspace sees an empty block and merges it away.
	c.HandleKey(KeyEvent{Key: KeyBackspace})
	assert.Equal(t, []string{"x"}, c.Document().Texts())
}

func TestCanvas_HorizontalNavigation(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "ab", "cd")

	focusAt(t, c, 1, 0)
	c.HandleKey(KeyEvent{Key: KeyLeft})
	i, _ := c.Focused()
	assert.Equal(t, 0, i)
	assert.Equal(t, 2, c.FocusedElement().Caret())

	c.HandleKey(KeyEvent{Key: KeyRight})
	i, _ = c.Focused()
	assert.Equal(t, 1, i)
	assert.Zero(t, c.FocusedElement().Caret())

	// Inside a block the caret just moves.
	c.HandleKey(KeyEvent{Key: KeyRight})
	i, _ = c.Focused()
	assert.Equal(t, 1, i)
	assert.Equal(t, 1, c.FocusedElement().Caret())

	// At the document edges nothing happens.
	focusAt(t, c, 1, 2)
	c.HandleKey(KeyEvent{Key: KeyRight})
	i, _ = c.Focused()
	assert.Equal(t, 1, i)
}

func TestCanvas_VerticalNavigation(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "first block", "second")

	focusAt(t, c, 1, 3)
	c.HandleKey(KeyEvent{Key: KeyUp})

	i, _ := c.Focused()
	assert.Equal(t, 0, i)
	assert.Equal(t, 3, c.FocusedElement().Caret(), "the caret keeps its column")

	c.HandleKey(KeyEvent{Key: KeyDown})
	i, _ = c.Focused()
	assert.Equal(t, 1, i)
	assert.Equal(t, 3, c.FocusedElement().Caret())
}

func TestCanvas_VerticalMoveInsideWrappedBlock(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 5, "aaaa bbbb cccc", "next")
	focusAt(t, c, 0, 1)

	c.HandleKey(KeyEvent{Key: KeyDown})

	i, _ := c.Focused()
	assert.Equal(t, 0, i, "the caret is not on the last line yet")
	assert.Equal(t, 6, c.FocusedElement().Caret())

	c.HandleKey(KeyEvent{Key: KeyDown})
	c.HandleKey(KeyEvent{Key: KeyDown})
	i, _ = c.Focused()
	assert.Equal(t, 1, i)
}

func TestCanvas_Paste(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "ad")
	focusAt(t, c, 0, 1)

	c.HandlePaste(MIMEData{MIMETextPlain: "bc", MIMETextHTML: "<b>bc</b>"})

	assert.Equal(t, []string{"abcd"}, c.Document().Texts())
	assert.Equal(t, 3, c.FocusedElement().Caret())
}

func TestCanvas_SetWidthRewraps(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "hello world foo", "x")
	c.SetWidth(10)

	second, _ := c.Document().At(1)
	el, _ := c.Element(second.ID())
	top, _ := el.Origin()
	assert.Equal(t, 40.0, top)

	c.SetWidth(0)
	assert.Equal(t, 1, c.Width())
}

func TestCanvas_Save(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "one", "two")
	require.NoError(t, c.Save())

	signals := drainSignals(c)
	require.Len(t, signals, 2)

	save, ok := signals[0].(SaveSignal)
	require.True(t, ok)
	doc, err := LoadDocument(strings.NewReader(save.Value()))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, doc.Texts())

	msg, ok := signals[1].(MessageSignal)
	require.True(t, ok)
	_, value := msg.Value()
	assert.Equal(t, ChangesSavedMessage, value)
}

func TestCanvas_FocusOutOfRange(t *testing.T) {
	t.Parallel()

	c := newTestCanvas(t, 20, "a")
	require.ErrorIs(t, c.Focus(3), ErrBlockNotFound)

	c.focus = 3
	c.HandleKey(KeyEvent{Rune: 'x'})

	signals := drainSignals(c)
	require.Len(t, signals, 1)
	id, err := signals[0].(ErrorSignal).Value()
	assert.Equal(t, ErrNoFocusedSessionId, id)
	assert.ErrorIs(t, err, ErrNoFocusedSession)
}

func TestCanvas_FullSignalChannelDoesNotBlock(t *testing.T) {
	t.Parallel()

	c := NewCanvas(nil, CanvasConfig{Width: 20, SignalBuffer: 1})
	typeText(c, "abc")

	assert.Len(t, drainSignals(c), 1)
	_, b := c.Focused()
	assert.Equal(t, "abc", b.Content())
}
