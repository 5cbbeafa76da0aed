package service

import "errors"

var (
	// ErrEmptyMessage rejects a send with no text and no image.
	ErrEmptyMessage = errors.New("message content is empty")
	// ErrBusy rejects a send/regenerate while another call is in flight for the
	// session. The call is dropped, never queued.
	ErrBusy = errors.New("a completion call is already in flight for this session")
	// ErrInvalidIndex rejects a regenerate whose index is outside the sequence.
	ErrInvalidIndex = errors.New("message index out of range")
)
