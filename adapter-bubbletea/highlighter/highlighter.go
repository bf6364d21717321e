package highlighter

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// maxCachedBlocks bounds the token cache; it is cleared when exceeded.
const maxCachedBlocks = 512

// Highlighter handles syntax highlighting of block text
type Highlighter struct {
	lexer      chroma.Lexer
	style      *chroma.Style
	cache      map[string][][]chroma.Token // Tokens per hard line, keyed by block text
	styleCache map[chroma.TokenType]lipgloss.Style
	cacheMutex sync.RWMutex
}

// TokenPosition represents a token's position in the original line
type TokenPosition struct {
	Token    chroma.Token
	StartCol int
	EndCol   int
}

// New creates a new syntax highlighter
func New(language string, theme string) *Highlighter {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)

	return &Highlighter{
		lexer:      lexer,
		style:      style,
		cache:      make(map[string][][]chroma.Token),
		styleCache: make(map[chroma.TokenType]lipgloss.Style),
	}
}

// InvalidateCache clears the token cache
func (sh *Highlighter) InvalidateCache() {
	sh.cacheMutex.Lock()
	defer sh.cacheMutex.Unlock()
	sh.cache = make(map[string][][]chroma.Token)
	sh.styleCache = make(map[chroma.TokenType]lipgloss.Style)
}

// Tokenize splits the tokens of text into hard lines.
func (sh *Highlighter) Tokenize(text string) [][]chroma.Token {
	sh.cacheMutex.RLock()
	lines, ok := sh.cache[text]
	sh.cacheMutex.RUnlock()
	if ok {
		return lines
	}

	lines = [][]chroma.Token{{}}
	if text != "" {
		iterator, err := sh.lexer.Tokenise(nil, text)
		if err == nil {
			lineNum := 0
			for _, token := range iterator.Tokens() {
				value := token.Value
				for strings.Contains(value, "\n") {
					before, after, _ := strings.Cut(value, "\n")
					if before != "" {
						lines[lineNum] = append(lines[lineNum], chroma.Token{Type: token.Type, Value: before})
					}
					lineNum++
					lines = append(lines, []chroma.Token{})
					value = after
				}
				if value != "" {
					lines[lineNum] = append(lines[lineNum], chroma.Token{Type: token.Type, Value: value})
				}
			}
		}
	}

	sh.cacheMutex.Lock()
	if len(sh.cache) >= maxCachedBlocks {
		sh.cache = make(map[string][][]chroma.Token)
	}
	sh.cache[text] = lines
	sh.cacheMutex.Unlock()

	return lines
}

// GetTokensForLine returns syntax tokens for hard line lineNum of text.
func (sh *Highlighter) GetTokensForLine(text string, lineNum int) []chroma.Token {
	lines := sh.Tokenize(text)
	if lineNum < 0 || lineNum >= len(lines) {
		return nil
	}
	return lines[lineNum]
}

// GetStyleForToken converts a Chroma token type to a lipgloss style.
func (sh *Highlighter) GetStyleForToken(tokenType chroma.TokenType) lipgloss.Style {
	sh.cacheMutex.RLock()
	style, ok := sh.styleCache[tokenType]
	sh.cacheMutex.RUnlock()
	if ok {
		return style
	}

	entry := sh.style.Get(tokenType)

	style = lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		style = style.Foreground(lipgloss.Color(entry.Colour.String()))
	}

	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}

	sh.cacheMutex.Lock()
	sh.styleCache[tokenType] = style
	sh.cacheMutex.Unlock()

	return style
}

// GetTokenPositions converts tokens to rune positions in the hard line.
func GetTokenPositions(tokens []chroma.Token) []TokenPosition {
	positions := make([]TokenPosition, 0, len(tokens))
	currentCol := 0

	for _, token := range tokens {
		tokenLen := len([]rune(token.Value))

		positions = append(positions, TokenPosition{
			Token:    token,
			StartCol: currentCol,
			EndCol:   currentCol + tokenLen,
		})

		currentCol += tokenLen
	}

	return positions
}

// FindTokenAtPosition finds which token contains the given column position.
func FindTokenAtPosition(positions []TokenPosition, col int) (chroma.Token, bool) {
	for _, pos := range positions {
		if col >= pos.StartCol && col < pos.EndCol {
			return pos.Token, true
		}
	}
	return chroma.Token{}, false
}
