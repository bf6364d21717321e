package core

// NavigationHost is the enclosing editor that owns the neighbours of a block.
// A session asks it for at most one structural transition per event.
type NavigationHost interface {
	// OnBlockDeletedLocally removes block, merges remainder into its
	// predecessor and moves focus there.
	OnBlockDeletedLocally(block *Block, remainder string)

	// OnNavigateLeft focuses the end of the block preceding block.
	OnNavigateLeft(block *Block)
	// OnNavigateRight focuses the start of the block following block.
	OnNavigateRight(block *Block)
	// OnNavigateUp focuses the previous block, near rect horizontally.
	OnNavigateUp(block *Block, rect Rect)
	// OnNavigateDown focuses the next block, near rect horizontally.
	OnNavigateDown(block *Block, rect Rect)

	// OnBlockContentUpdatedLocally reports that the focused block changed.
	OnBlockContentUpdatedLocally()

	// NewBlockInsertedLocally inserts a block seeded with text after the
	// current one and focuses it.
	NewBlockInsertedLocally(text string)
}

// Dependencies are the capabilities a session is composed from.
type Dependencies struct {
	Selection SelectionProvider
	Splitter  TextSplitProvider
	Host      NavigationHost
}

// Disposition tells the caller whether the platform default action for an
// event should still run.
type Disposition uint8

const (
	PassThrough Disposition = iota
	Prevented
)

func (d Disposition) String() string {
	if d == Prevented {
		return "prevented"
	}
	return "pass-through"
}
