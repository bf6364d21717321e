package core

import "github.com/google/uuid"

type Signal any

type ContentChangedSignal struct {
	blockID uuid.UUID
	content string
}

func (c ContentChangedSignal) Value() (blockID uuid.UUID, content string) {
	return c.blockID, c.content
}

type BlockInsertedSignal struct {
	blockID uuid.UUID
	index   int
}

func (b BlockInsertedSignal) Value() (blockID uuid.UUID, index int) {
	return b.blockID, b.index
}

type BlockDeletedSignal struct {
	blockID  uuid.UUID
	mergedID uuid.UUID
}

// Value returns the removed block and the block its remainder was merged into.
func (b BlockDeletedSignal) Value() (blockID, mergedID uuid.UUID) {
	return b.blockID, b.mergedID
}

type FocusChangedSignal struct {
	blockID uuid.UUID
	index   int
}

func (f FocusChangedSignal) Value() (blockID uuid.UUID, index int) {
	return f.blockID, f.index
}

type MessageSignal struct {
	id    string
	value string
}

func (m MessageSignal) Value() (id, message string) {
	id = m.id
	message = m.value

	return id, message
}

type SaveSignal struct {
	content string
}

func (s SaveSignal) Value() string {
	return s.content
}

type ErrorSignal Error

func (e ErrorSignal) Value() (id ErrorId, err error) {
	id = e.id
	err = e.err

	return id, err
}

func (c *Canvas) DispatchSignal(signal Signal) {
	select {
	case c.updateSignal <- signal:
	default:
		c.logger.Warn("channel is full, dropping signal")
	}
}
