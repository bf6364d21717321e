package core

import (
	"errors"
)

var (
	ErrBlockNotFound    = errors.New("block not found")
	ErrInvalidDocument  = errors.New("invalid document")
	ErrGuardHeld        = errors.New("render guard already held")
	ErrClipboardRead    = errors.New("cannot read clipboard")
	ErrFailedToSave     = errors.New("failed to save document")
	ErrNoFocusedSession = errors.New("no focused block")
)

type ErrorId int

const (
	ErrBlockNotFoundId ErrorId = iota
	ErrInvalidDocumentId
	ErrGuardHeldId
	ErrClipboardReadId
	ErrFailedToSaveId
	ErrNoFocusedSessionId
)

type Error struct {
	id  ErrorId
	err error
}

func (e Error) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e Error) Unwrap() error { return e.err }

// DispatchError sends an ErrorSignal to consumers without blocking.
func (c *Canvas) DispatchError(id ErrorId, err error) {
	select {
	case c.updateSignal <- ErrorSignal{id, err}:
	default:
		c.logger.Warn("channel is full, unable to send error signal", "id", id, "err", err)
	}
}
