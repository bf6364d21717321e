package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	editor "github.com/ionut-t/goblocks/adapter-bubbletea"
	"github.com/ionut-t/goblocks/core"
)

const messageDuration = 3 * time.Second

type Model struct {
	editor editor.Model
	file   string
	dirty  bool
}

func (m Model) Init() tea.Cmd {
	return m.editor.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor.SetSize(msg.Width-4, msg.Height-3)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

	case editor.ContentChangedMsg, editor.BlockInsertedMsg, editor.BlockDeletedMsg:
		m.dirty = true

	case editor.SaveMsg:
		if err := os.WriteFile(m.file, []byte(msg.Content), 0644); err != nil {
			return m, m.editor.DispatchError(err, messageDuration)
		}
		m.dirty = false
		return m, m.editor.DispatchMessage(fmt.Sprintf("saved to %s", m.file), messageDuration)
	}

	editorModel, cmd := m.editor.Update(msg)
	m.editor = editorModel.(editor.Model)

	return m, cmd
}

func (m Model) View() string {
	title := m.file
	if m.dirty {
		title += " [+]"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(title),
		lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Render(m.editor.View()),
	)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

func loadDocument(path string) (*core.Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.NewDocumentFromText("Welcome. Enter splits a block, Backspace at the start merges it."), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return core.LoadDocument(f)
}

func main() {
	file := flag.String("file", "page.yaml", "document to edit")
	logFile := flag.String("log", "", "write logs to this file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	lang := flag.String("lang", "", "highlight block text as this language")
	flag.Parse()

	level, err := parseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.DiscardHandler)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	doc, err := loadDocument(*file)
	if err != nil {
		log.Fatalf("Error loading %s: %v", *file, err)
	}

	textEditor := editor.NewWithConfig(doc, core.CanvasConfig{Logger: logger}, 80, 20)
	textEditor.Focus()
	textEditor.SetPlaceholder("Type something")
	if *lang != "" {
		textEditor.SetLanguage(*lang, "catppuccin-mocha")
	}

	m := Model{
		editor: textEditor,
		file:   *file,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running Bubble Tea program: %v", err)
	}
}
