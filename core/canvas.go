package core

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	defaultCanvasWidth  = 80
	defaultSignalBuffer = 100
)

// CanvasConfig configures a Canvas.
type CanvasConfig struct {
	// Width is the wrap width of every block in cells.
	Width   int
	Metrics Metrics
	Session SessionConfig
	Logger  *slog.Logger
	// SignalBuffer is the capacity of the update signal channel.
	SignalBuffer int
}

func normalizeCanvasConfig(cfg CanvasConfig) CanvasConfig {
	if cfg.Width <= 0 {
		cfg.Width = defaultCanvasWidth
	}
	if cfg.SignalBuffer <= 0 {
		cfg.SignalBuffer = defaultSignalBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Session.Logger == nil {
		cfg.Session.Logger = cfg.Logger
	}
	cfg.Metrics = normalizeMetrics(cfg.Metrics)
	return cfg
}

type blockView struct {
	session *BlockEditSession
	element *TextElement
}

// Canvas is a block document laid out as a vertical stack of TextElements.
//
// It mounts one BlockEditSession per block, routes events to the focused
// one, runs the element's native behaviour when a session passes an event
// through, and implements NavigationHost for all of them.
type Canvas struct {
	doc    *Document
	views  map[uuid.UUID]*blockView
	focus  int
	cfg    CanvasConfig
	logger *slog.Logger

	updateSignal chan Signal
}

var _ NavigationHost = (*Canvas)(nil)

// NewCanvas mounts every block of doc. A nil doc starts an empty page.
func NewCanvas(doc *Document, cfg CanvasConfig) *Canvas {
	if doc == nil || doc.Len() == 0 {
		doc = NewDocument()
	}
	cfg = normalizeCanvasConfig(cfg)

	c := &Canvas{
		doc:          doc,
		views:        make(map[uuid.UUID]*blockView, doc.Len()),
		cfg:          cfg,
		logger:       cfg.Logger,
		updateSignal: make(chan Signal, cfg.SignalBuffer),
	}

	for _, b := range doc.Blocks() {
		c.mount(b)
	}
	c.relayout()

	return c
}

func (c *Canvas) mount(b *Block) *blockView {
	el := NewTextElement(c.cfg.Width, c.cfg.Metrics)
	s := NewBlockEditSession(b, el, Dependencies{Selection: el, Splitter: ElementSplitter{}, Host: c}, c.cfg.Session)
	s.Mount()

	v := &blockView{session: s, element: el}
	c.views[b.ID()] = v
	return v
}

func (c *Canvas) unmount(b *Block) {
	v, ok := c.views[b.ID()]
	if !ok {
		return
	}
	v.session.Unmount()
	delete(c.views, b.ID())
}

// relayout stacks the elements vertically.
func (c *Canvas) relayout() {
	top := 0.0
	for _, b := range c.doc.blocks {
		v, ok := c.views[b.ID()]
		if !ok {
			continue
		}
		v.element.SetWidth(c.cfg.Width)
		v.element.SetOrigin(top, 0)
		top += v.element.PixelHeight()
	}
}

func (c *Canvas) Document() *Document { return c.doc }

func (c *Canvas) GetUpdateSignalChan() <-chan Signal { return c.updateSignal }

func (c *Canvas) Width() int { return c.cfg.Width }

func (c *Canvas) SetWidth(width int) {
	if width <= 0 {
		width = 1
	}
	c.cfg.Width = width
	c.relayout()
}

func (c *Canvas) Metrics() Metrics { return c.cfg.Metrics }

// Element returns the element rendering the block with id.
func (c *Canvas) Element(id uuid.UUID) (*TextElement, bool) {
	v, ok := c.views[id]
	if !ok {
		return nil, false
	}
	return v.element, true
}

// Session returns the mounted session of the block with id.
func (c *Canvas) Session(id uuid.UUID) (*BlockEditSession, bool) {
	v, ok := c.views[id]
	if !ok {
		return nil, false
	}
	return v.session, true
}

// Focused returns the index and block that receive events.
func (c *Canvas) Focused() (int, *Block) {
	b, err := c.doc.At(c.focus)
	if err != nil {
		return c.focus, nil
	}
	return c.focus, b
}

func (c *Canvas) FocusedElement() *TextElement {
	v, err := c.focusedView()
	if err != nil {
		return nil
	}
	return v.element
}

// Focus moves focus to block i, keeping that element's caret.
func (c *Canvas) Focus(i int) error {
	b, err := c.doc.At(i)
	if err != nil {
		return fmt.Errorf("Focus: %w", err)
	}
	c.focus = i
	c.DispatchSignal(FocusChangedSignal{blockID: b.ID(), index: i})
	return nil
}

func (c *Canvas) focusedView() (*blockView, error) {
	_, b := c.Focused()
	if b == nil {
		return nil, ErrNoFocusedSession
	}
	v, ok := c.views[b.ID()]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not mounted", ErrNoFocusedSession, b.ID())
	}
	return v, nil
}

// HandleKey dispatches key to the focused session and runs the element's
// default action when the session lets it through.
func (c *Canvas) HandleKey(key KeyEvent) {
	v, err := c.focusedView()
	if err != nil {
		c.DispatchError(ErrNoFocusedSessionId, err)
		return
	}
	defer c.relayout()

	if v.session.HandleKey(key) == Prevented {
		return
	}

	el := v.element
	extend := key.Shift()
	edited := false

	switch key.Key {
	case KeyLeft:
		el.MoveLeft(extend)
	case KeyRight:
		el.MoveRight(extend)
	case KeyUp:
		el.MoveUp(extend)
	case KeyDown:
		el.MoveDown(extend)
	case KeyHome:
		el.MoveHome(extend)
	case KeyEnd:
		el.MoveEnd(extend)
	case KeyBackspace:
		edited = el.DeleteBackward()
	case KeyDelete:
		edited = el.DeleteForward()
	case KeyEnter:
		el.InsertText("\n")
		edited = true
	case KeyTab:
		el.InsertText("\t")
		edited = true
	case KeyEscape:
	default:
		if key.Rune != 0 && key.Modifiers&(ModCtrl|ModAlt) == 0 {
			el.InsertText(string(key.Rune))
			edited = true
		}
	}

	if edited {
		v.session.HandleInput()
	}
}

// HandlePaste pastes data into the focused block.
func (c *Canvas) HandlePaste(data ClipboardData) {
	v, err := c.focusedView()
	if err != nil {
		c.DispatchError(ErrNoFocusedSessionId, err)
		return
	}
	v.session.HandlePaste(data)
	c.relayout()
}

// Save encodes the document and dispatches it as a SaveSignal.
func (c *Canvas) Save() error {
	var buf bytes.Buffer
	if err := c.doc.Save(&buf); err != nil {
		c.DispatchError(ErrFailedToSaveId, err)
		return err
	}
	c.DispatchSignal(SaveSignal{content: buf.String()})
	c.DispatchMessage(ChangesSavedMessage)
	return nil
}

// neighbour returns the block at offset from block, or nil at the edges.
func (c *Canvas) neighbour(block *Block, offset int) (int, *blockView) {
	i := c.doc.Index(block.ID())
	if i < 0 {
		c.logger.Debug("block is not part of the document", "block", block.ID().String())
		return -1, nil
	}
	j := i + offset
	b, err := c.doc.At(j)
	if err != nil {
		c.logger.Debug("no neighbour", "block", block.ID().String(), "offset", offset)
		return -1, nil
	}
	return j, c.views[b.ID()]
}

func (c *Canvas) OnNavigateLeft(block *Block) {
	j, v := c.neighbour(block, -1)
	if v == nil {
		return
	}
	v.element.SetCaret(v.element.Len())
	_ = c.Focus(j)
}

func (c *Canvas) OnNavigateRight(block *Block) {
	j, v := c.neighbour(block, 1)
	if v == nil {
		return
	}
	v.element.SetCaret(0)
	_ = c.Focus(j)
}

func (c *Canvas) OnNavigateUp(block *Block, rect Rect) {
	j, v := c.neighbour(block, -1)
	if v == nil {
		return
	}
	v.element.PlaceCaret(rect.Left, SideBottom)
	_ = c.Focus(j)
}

func (c *Canvas) OnNavigateDown(block *Block, rect Rect) {
	j, v := c.neighbour(block, 1)
	if v == nil {
		return
	}
	v.element.PlaceCaret(rect.Left, SideTop)
	_ = c.Focus(j)
}

func (c *Canvas) OnBlockDeletedLocally(block *Block, remainder string) {
	i := c.doc.Index(block.ID())
	j, v := c.neighbour(block, -1)
	if v == nil {
		return
	}

	prev := v.session.Block()
	join := v.element.Len()
	prev.SetLastContent(prev.Content())
	prev.SetContent(prev.Content() + remainder)

	c.unmount(block)
	if _, err := c.doc.Remove(i); err != nil {
		c.logger.Warn("cannot remove block", "err", err)
	}

	v.element.SetCaret(join)
	_ = c.Focus(j)

	c.DispatchSignal(BlockDeletedSignal{blockID: block.ID(), mergedID: prev.ID()})
	c.DispatchSignal(ContentChangedSignal{blockID: prev.ID(), content: prev.Content()})
}

func (c *Canvas) OnBlockContentUpdatedLocally() {
	_, b := c.Focused()
	if b == nil {
		return
	}
	c.DispatchSignal(ContentChangedSignal{blockID: b.ID(), content: b.Content()})
}

func (c *Canvas) NewBlockInsertedLocally(text string) {
	i := c.focus
	b := NewBlock(text)
	if err := c.doc.InsertAfter(i, b); err != nil {
		c.logger.Warn("cannot insert block", "err", err)
		return
	}

	v := c.mount(b)
	v.element.SetCaret(0)
	_ = c.Focus(i + 1)

	c.DispatchSignal(BlockInsertedSignal{blockID: b.ID(), index: i + 1})
}
