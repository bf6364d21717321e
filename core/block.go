package core

import "github.com/google/uuid"

type subscription struct {
	id int
	fn func(content string)
}

// Block is a unit of content in a block document.
//
// Content changes are announced synchronously to subscribers. The block never
// renders anything itself; views subscribe and reconcile on their own.
type Block struct {
	id          uuid.UUID
	content     string
	lastContent string

	subs   []subscription
	nextID int
}

// NewBlock creates a block with a fresh identity.
func NewBlock(content string) *Block {
	return NewBlockWithID(uuid.New(), content)
}

func NewBlockWithID(id uuid.UUID, content string) *Block {
	return &Block{id: id, content: content}
}

func (b *Block) ID() uuid.UUID { return b.id }

func (b *Block) Content() string { return b.content }

// LastContent returns the content recorded before the latest local edit.
func (b *Block) LastContent() string { return b.lastContent }

func (b *Block) SetLastContent(content string) { b.lastContent = content }

// SetContent replaces the content and notifies subscribers when it changed.
func (b *Block) SetContent(content string) {
	if b.content == content {
		return
	}
	b.content = content

	// Subscribers may cancel themselves while being notified.
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	for _, s := range subs {
		s.fn(content)
	}
}

// Subscribe registers fn for content changes. The returned cancel function is
// safe to call more than once.
func (b *Block) Subscribe(fn func(content string)) (cancel func()) {
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Block) subscriberCount() int { return len(b.subs) }
