package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const documentVersion = 1

// Document is the ordered list of blocks that make up a page.
type Document struct {
	blocks []*Block
}

// NewDocument creates a document from blocks. An empty document gets a single
// empty block so there is always something to edit.
func NewDocument(blocks ...*Block) *Document {
	if len(blocks) == 0 {
		blocks = []*Block{NewBlock("")}
	}
	return &Document{blocks: blocks}
}

// NewDocumentFromText creates one block per text.
func NewDocumentFromText(texts ...string) *Document {
	blocks := make([]*Block, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, NewBlock(t))
	}
	return NewDocument(blocks...)
}

func (d *Document) Len() int { return len(d.blocks) }

// Blocks returns a copy of the block list.
func (d *Document) Blocks() []*Block {
	out := make([]*Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

func (d *Document) At(i int) (*Block, error) {
	if i < 0 || i >= len(d.blocks) {
		return nil, fmt.Errorf("At: %w: index %d out of bounds [0, %d)", ErrBlockNotFound, i, len(d.blocks))
	}
	return d.blocks[i], nil
}

// Index returns the position of the block with id, or -1.
func (d *Document) Index(id uuid.UUID) int {
	for i, b := range d.blocks {
		if b.ID() == id {
			return i
		}
	}
	return -1
}

// InsertAfter inserts b right after index i. i == -1 inserts at the front.
func (d *Document) InsertAfter(i int, b *Block) error {
	if i < -1 || i >= len(d.blocks) {
		return fmt.Errorf("InsertAfter: %w: index %d out of bounds [-1, %d)", ErrBlockNotFound, i, len(d.blocks))
	}
	d.blocks = append(d.blocks, nil)
	copy(d.blocks[i+2:], d.blocks[i+1:])
	d.blocks[i+1] = b
	return nil
}

func (d *Document) Remove(i int) (*Block, error) {
	if i < 0 || i >= len(d.blocks) {
		return nil, fmt.Errorf("Remove: %w: index %d out of bounds [0, %d)", ErrBlockNotFound, i, len(d.blocks))
	}
	b := d.blocks[i]
	d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
	return b, nil
}

// Texts returns the content of every block in order.
func (d *Document) Texts() []string {
	out := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.Content()
	}
	return out
}

type blockRecord struct {
	ID      string `yaml:"id,omitempty"`
	Content string `yaml:"content"`
}

type documentFile struct {
	Version int           `yaml:"version"`
	Blocks  []blockRecord `yaml:"blocks"`
}

// LoadDocument decodes a YAML document. Blocks without an id get a new one.
func LoadDocument(r io.Reader) (*Document, error) {
	var f documentFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if f.Version != 0 && f.Version != documentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, f.Version)
	}

	seen := make(map[uuid.UUID]struct{}, len(f.Blocks))
	blocks := make([]*Block, 0, len(f.Blocks))
	for i, rec := range f.Blocks {
		id := uuid.New()
		if rec.ID != "" {
			parsed, err := uuid.Parse(rec.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: block %d: %w", ErrInvalidDocument, i, err)
			}
			id = parsed
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate block id %s", ErrInvalidDocument, id)
		}
		seen[id] = struct{}{}
		blocks = append(blocks, NewBlockWithID(id, rec.Content))
	}

	return NewDocument(blocks...), nil
}

// Save encodes the document as YAML.
func (d *Document) Save(w io.Writer) error {
	f := documentFile{
		Version: documentVersion,
		Blocks:  make([]blockRecord, 0, len(d.blocks)),
	}
	for _, b := range d.blocks {
		f.Blocks = append(f.Blocks, blockRecord{ID: b.ID().String(), Content: b.Content()})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSave, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSave, err)
	}
	return nil
}
