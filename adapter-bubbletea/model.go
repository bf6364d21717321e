package adapter_bubbletea

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/ionut-t/goblocks/adapter-bubbletea/highlighter"
	"github.com/ionut-t/goblocks/core"
)

// gutterWidth is the number of cells reserved left of every block.
const gutterWidth = 2

type Theme struct {
	TextStyle          lipgloss.Style
	GutterStyle        lipgloss.Style
	FocusedGutterStyle lipgloss.Style
	CursorStyle        lipgloss.Style
	SelectionStyle     lipgloss.Style
	PlaceholderStyle   lipgloss.Style
	MessageStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	CommandLineStyle   lipgloss.Style
}

var DefaultTheme = Theme{
	TextStyle:          lipgloss.NewStyle(),
	GutterStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	FocusedGutterStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	CursorStyle:        lipgloss.NewStyle().Background(lipgloss.Color("26")).Foreground(lipgloss.Color("255")),
	SelectionStyle:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
	PlaceholderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	MessageStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	ErrorStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	CommandLineStyle:   lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")),
}

type Model struct {
	canvas           *core.Canvas
	viewport         viewport.Model
	width            int
	height           int
	theme            Theme
	keyMap           KeyMap
	clipboard        core.Clipboard
	err              error
	message          string
	isFocused        bool
	placeholder      string
	clearMsgCancel   context.CancelFunc
	highlighter      *highlighter.Highlighter
	language         string
	highlighterTheme string
}

type ErrorMsg struct {
	ID    core.ErrorId
	Error error
}

type SaveMsg struct {
	Content string
}

type ContentChangedMsg struct {
	BlockID uuid.UUID
	Content string
}

type BlockInsertedMsg struct {
	BlockID uuid.UUID
	Index   int
}

type BlockDeletedMsg struct {
	BlockID  uuid.UUID
	MergedID uuid.UUID
}

type FocusChangedMsg struct {
	BlockID uuid.UUID
	Index   int
}

type messageMsg string

type clearMsg struct{}

// signalMsg carries a translated canvas signal and re-arms the listener.
type signalMsg struct {
	msg tea.Msg
}

func (m *Model) dispatchClearMsg(duration time.Duration) tea.Cmd {
	if m.clearMsgCancel != nil {
		m.clearMsgCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	m.clearMsgCancel = cancel

	return func() tea.Msg {
		defer cancel()
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			return clearMsg{}
		}
		return nil
	}
}

// New creates an editor over an empty page.
func New(width, height int) Model {
	return NewWithConfig(core.NewDocument(), core.CanvasConfig{}, width, height)
}

// NewWithDocument creates an editor over doc.
func NewWithDocument(doc *core.Document, width, height int) Model {
	return NewWithConfig(doc, core.CanvasConfig{}, width, height)
}

// NewWithConfig creates an editor over doc with a custom canvas configuration.
// The canvas width is derived from the editor width.
func NewWithConfig(doc *core.Document, cfg core.CanvasConfig, width, height int) Model {
	cfg.Width = max(width-gutterWidth, 1)

	m := Model{
		canvas:    core.NewCanvas(doc, cfg),
		viewport:  viewport.New(width, max(height-1, 1)),
		theme:     DefaultTheme,
		keyMap:    DefaultKeyMap(),
		clipboard: &clipboardImpl{},
	}

	m.SetSize(width, height)

	return m
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)

	m.canvas.SetWidth(max(width-gutterWidth, 1))
	m.refresh()
}

// WithTheme allows setting a custom theme for the editor.
func (m *Model) WithTheme(theme Theme) {
	m.theme = theme
	m.refresh()
}

// WithKeyMap replaces the adapter key bindings.
func (m *Model) WithKeyMap(keyMap KeyMap) {
	m.keyMap = keyMap
}

// WithClipboard replaces the system clipboard, mostly useful in tests.
// A nil clipboard disables ctrl+v.
func (m *Model) WithClipboard(clipboard core.Clipboard) {
	m.clipboard = clipboard
}

// SetPlaceholder sets the hint shown in the focused block while it is empty.
func (m *Model) SetPlaceholder(placeholder string) {
	m.placeholder = placeholder
	m.refresh()
}

// SetLanguage sets the language used to highlight block text.
//
// If the language is empty, syntax highlighting will be disabled.
//
// The theme parameter allows specifying a Chroma theme for the syntax highlighter.
// For a full list of available themes, see: https://github.com/alecthomas/chroma/blob/master/styles
func (m *Model) SetLanguage(language string, theme string) {
	if m.language == language && m.highlighterTheme == theme {
		return
	}

	m.language = language
	m.highlighterTheme = theme
	if language == "" {
		m.highlighter = nil
	} else {
		m.highlighter = highlighter.New(language, theme)
	}
	m.refresh()
}

// DispatchMessage shows message in the command line for duration.
func (m *Model) DispatchMessage(message string, duration time.Duration) tea.Cmd {
	m.message = message
	m.err = nil

	return m.dispatchClearMsg(duration)
}

// DispatchError shows err in the command line for duration.
func (m *Model) DispatchError(err error, duration time.Duration) tea.Cmd {
	m.err = err
	m.message = ""

	return m.dispatchClearMsg(duration)
}

// Document returns the edited document.
func (m *Model) Document() *core.Document {
	return m.canvas.Document()
}

// Canvas returns the underlying canvas.
func (m *Model) Canvas() *core.Canvas {
	return m.canvas
}

// Save dispatches the document content as a SaveMsg.
func (m *Model) Save() {
	_ = m.canvas.Save()
}

// Focus sets the editor to focused state.
func (m *Model) Focus() {
	m.isFocused = true
	m.refresh()
}

// Blur sets the editor to unfocused state.
func (m *Model) Blur() {
	m.isFocused = false
	m.refresh()
}

// IsFocused returns whether the editor is currently focused.
func (m *Model) IsFocused() bool {
	return m.isFocused
}

func (m Model) Init() tea.Cmd {
	return m.listenForCanvasUpdate()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.isFocused {
			break
		}
		cmds = append(cmds, m.handleKey(msg))
		m.refresh()

	case signalMsg:
		cmds = append(cmds, m.listenForCanvasUpdate())
		if msg.msg != nil {
			inner := msg.msg
			cmds = append(cmds, func() tea.Msg { return inner })
		}

	case messageMsg:
		cmds = append(cmds, m.DispatchMessage(string(msg), 3*time.Second))

	case ErrorMsg:
		cmds = append(cmds, m.DispatchError(msg.Error, 3*time.Second))

	case clearMsg:
		m.message = ""
		m.err = nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Bracketed paste is literal text and never triggers bindings.
	if msg.Paste {
		m.canvas.HandlePaste(core.PlainText(normalizeNewlines(string(msg.Runes))))
		return nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Paste):
		if m.clipboard == nil {
			return nil
		}
		text, err := m.clipboard.Read()
		if err != nil {
			err = fmt.Errorf("%w: %w", core.ErrClipboardRead, err)
			return func() tea.Msg {
				return ErrorMsg{ID: core.ErrClipboardReadId, Error: err}
			}
		}
		m.canvas.HandlePaste(core.PlainText(normalizeNewlines(text)))

	case key.Matches(msg, m.keyMap.Save):
		m.Save()

	case key.Matches(msg, m.keyMap.SoftBreak):
		m.canvas.HandleKey(core.KeyEvent{Key: core.KeyEnter, Modifiers: core.ModShift})

	case msg.Type == tea.KeyRunes && len(msg.Runes) > 1 && !msg.Alt:
		// Fast typing can deliver several runes in one message.
		for _, r := range msg.Runes {
			m.canvas.HandleKey(core.KeyEvent{Rune: r})
		}

	default:
		m.canvas.HandleKey(convertBubbleKey(msg))
	}

	return nil
}

func (m Model) View() string {
	content := m.viewport.View()

	var commandLine string
	if m.message != "" {
		commandLine = m.theme.MessageStyle.Render(m.message)
	}
	if m.err != nil {
		commandLine = m.theme.ErrorStyle.Render(m.err.Error())
	}

	paddingWidth := m.width - lipgloss.Width(commandLine)
	if paddingWidth > 0 {
		commandLine += m.theme.CommandLineStyle.Render(strings.Repeat(" ", paddingWidth))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		commandLine,
	)
}

func (m *Model) listenForCanvasUpdate() tea.Cmd {
	ch := m.canvas.GetUpdateSignalChan()
	return func() tea.Msg {
		signal := <-ch

		switch signal := signal.(type) {
		case core.MessageSignal:
			_, message := signal.Value()
			return signalMsg{messageMsg(message)}

		case core.ErrorSignal:
			id, err := signal.Value()
			return signalMsg{ErrorMsg{ID: id, Error: err}}

		case core.SaveSignal:
			return signalMsg{SaveMsg{Content: signal.Value()}}

		case core.ContentChangedSignal:
			id, content := signal.Value()
			return signalMsg{ContentChangedMsg{BlockID: id, Content: content}}

		case core.BlockInsertedSignal:
			id, index := signal.Value()
			return signalMsg{BlockInsertedMsg{BlockID: id, Index: index}}

		case core.BlockDeletedSignal:
			id, merged := signal.Value()
			return signalMsg{BlockDeletedMsg{BlockID: id, MergedID: merged}}

		case core.FocusChangedSignal:
			id, index := signal.Value()
			return signalMsg{FocusChangedMsg{BlockID: id, Index: index}}
		}

		return signalMsg{}
	}
}
