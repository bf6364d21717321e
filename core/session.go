package core

import (
	"log/slog"
	"math"
	"strings"
)

// DefaultNavigationThreshold is how close, in pixels, the caret must be to
// the first or last line box for Up/Down to leave the block. It absorbs
// sub-pixel and line-height rounding. It is a tuned heuristic and does not
// necessarily carry over to other font sizes.
const DefaultNavigationThreshold = 10.0

// SessionConfig configures a BlockEditSession.
type SessionConfig struct {
	// Non-positive values select DefaultNavigationThreshold.
	NavigationThreshold float64

	// StripTrailingNewline drops one trailing "\n" from the rendered text,
	// for platforms that append one to edited editable regions.
	StripTrailingNewline bool

	Logger *slog.Logger
}

func normalizeSessionConfig(cfg SessionConfig) SessionConfig {
	if cfg.NavigationThreshold <= 0 {
		cfg.NavigationThreshold = DefaultNavigationThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// BlockEditSession turns key, input and paste events on one editable block
// into either nothing (the platform default runs) or exactly one
// NavigationHost transition.
type BlockEditSession struct {
	block   *Block
	element Element

	selection SelectionProvider
	splitter  TextSplitProvider
	host      NavigationHost

	cfg    SessionConfig
	logger *slog.Logger

	guard       RenderGuard
	unsubscribe func()
}

// NewBlockEditSession creates a session. Call Mount before dispatching events.
func NewBlockEditSession(block *Block, element Element, deps Dependencies, cfg SessionConfig) *BlockEditSession {
	cfg = normalizeSessionConfig(cfg)
	if deps.Splitter == nil {
		deps.Splitter = ElementSplitter{}
	}

	return &BlockEditSession{
		block:     block,
		element:   element,
		selection: deps.Selection,
		splitter:  deps.Splitter,
		host:      deps.Host,
		cfg:       cfg,
		logger:    cfg.Logger.With("block", block.ID().String()),
	}
}

func (s *BlockEditSession) Block() *Block { return s.block }

func (s *BlockEditSession) Element() Element { return s.element }

// Mount subscribes to content changes and renders the block once.
func (s *BlockEditSession) Mount() {
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.block.Subscribe(s.onExternalContentChange)
	s.Render()
}

func (s *BlockEditSession) Unmount() {
	if s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	s.unsubscribe = nil
}

func (s *BlockEditSession) Mounted() bool { return s.unsubscribe != nil }

// ElementText returns the text the user sees in the element.
func (s *BlockEditSession) ElementText() string {
	if s.element.IsPlaceholder() {
		return ""
	}

	text := s.element.RenderedText()
	if s.cfg.StripTrailingNewline {
		text = strings.TrimSuffix(text, "\n")
	}
	return text
}

// ElementRect returns the first (SideTop) or last (SideBottom) line box.
func (s *BlockEditSession) ElementRect(side Side) (Rect, bool) {
	rects := s.element.ClientRects()
	if len(rects) == 0 {
		return Rect{}, false
	}
	if side == SideBottom {
		return rects[len(rects)-1], true
	}
	return rects[0], true
}

// HandleInput keeps the block in sync with what the user typed.
func (s *BlockEditSession) HandleInput() {
	s.SetBlockContentFromInput(s.ElementText(), true)
}

// HandleKey decides whether key leaves the block or stays with the platform.
func (s *BlockEditSession) HandleKey(key KeyEvent) Disposition {
	switch key.Key {
	case KeyLeft:
		return s.navigateLeft()
	case KeyRight:
		return s.navigateRight()
	case KeyUp:
		return s.navigateUp()
	case KeyDown:
		return s.navigateDown()
	case KeyBackspace:
		return s.backspace()
	case KeyEnter:
		if key.Shift() {
			return PassThrough
		}
		return s.newBlockAtSplit()
	default:
		return PassThrough
	}
}

// HandlePaste inserts the plain-text payload only. Rich formats are dropped.
func (s *BlockEditSession) HandlePaste(data ClipboardData) Disposition {
	text := ""
	if data != nil {
		text = data.GetData(MIMETextPlain)
	}

	s.element.InsertText(text)
	s.HandleInput()
	return Prevented
}

func (s *BlockEditSession) navigateLeft() Disposition {
	split := s.splitter.Manipulation(s.element)
	if split.Before != "" {
		return PassThrough
	}

	s.logger.Debug("navigate left")
	s.host.OnNavigateLeft(s.block)
	return Prevented
}

func (s *BlockEditSession) navigateRight() Disposition {
	split := s.splitter.Manipulation(s.element)
	if split.After != "" {
		return PassThrough
	}

	s.logger.Debug("navigate right")
	s.host.OnNavigateRight(s.block)
	return Prevented
}

func (s *BlockEditSession) navigateUp() Disposition {
	sel := s.selection.Selection()
	if sel.Rect == nil {
		return PassThrough
	}
	top, ok := s.ElementRect(SideTop)
	if !ok {
		return PassThrough
	}

	if math.Abs(sel.Rect.Top-top.Top) > s.cfg.NavigationThreshold {
		return PassThrough
	}

	s.logger.Debug("navigate up", "distance", math.Abs(sel.Rect.Top-top.Top))
	s.host.OnNavigateUp(s.block, *sel.Rect)
	return Prevented
}

func (s *BlockEditSession) navigateDown() Disposition {
	sel := s.selection.Selection()
	if sel.Rect == nil {
		return PassThrough
	}
	bottom, ok := s.ElementRect(SideBottom)
	if !ok {
		return PassThrough
	}

	if math.Abs(bottom.Bottom-sel.Rect.Bottom) > s.cfg.NavigationThreshold {
		return PassThrough
	}

	s.logger.Debug("navigate down", "distance", math.Abs(bottom.Bottom-sel.Rect.Bottom))
	s.host.OnNavigateDown(s.block, *sel.Rect)
	return Prevented
}

func (s *BlockEditSession) backspace() Disposition {
	split := s.splitter.Manipulation(s.element)
	if split.Before != "" || !s.selection.Selection().IsCollapsed {
		return PassThrough
	}

	s.logger.Debug("delete block", "remainder", len(split.After))
	s.host.OnBlockDeletedLocally(s.block, split.After)
	return Prevented
}

func (s *BlockEditSession) newBlockAtSplit() Disposition {
	split := s.splitter.Manipulation(s.element)

	s.logger.Debug("split block", "before", len(split.Before), "after", len(split.After))
	s.SetBlockContentFromInput(split.Before, false)
	s.host.NewBlockInsertedLocally(split.After)
	return Prevented
}

// SetBlockContentFromInput writes content to the block and tells the host.
//
// With preventRerender the render guard is held for the write, so the
// element the user is typing into is not rewritten underneath them.
func (s *BlockEditSession) SetBlockContentFromInput(content string, preventRerender bool) {
	s.block.SetLastContent(s.block.Content())

	if preventRerender {
		if err := s.guard.Do(func() { s.block.SetContent(content) }); err != nil {
			s.logger.Warn("content write while guard held", "err", err)
			return
		}
	} else {
		s.block.SetContent(content)
	}

	s.host.OnBlockContentUpdatedLocally()
}

// Render writes the block content into the element.
func (s *BlockEditSession) Render() {
	content := s.block.Content()
	if content == "" {
		s.element.RenderPlaceholder()
		return
	}
	s.element.RenderText(content)
}

func (s *BlockEditSession) onExternalContentChange(string) {
	if s.guard.Held() {
		return
	}
	s.Render()
}
