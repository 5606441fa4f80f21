package screen

import (
	"errors"

	"github.com/okian/classplay/internal/domain/grammar"
)

var (
	// ErrInvalidAction is returned for an action the screen does not understand
	// or cannot take in its current state.
	ErrInvalidAction = errors.New("invalid action")
	// ErrIncompleteSelection is returned when a sentence is checked with an empty slot.
	ErrIncompleteSelection = grammar.ErrIncompleteSelection
	// ErrUnknownKind is returned for a screen kind that does not exist.
	ErrUnknownKind = errors.New("unknown screen kind")
	// ErrKindDisabled is returned for a screen kind that is switched off.
	ErrKindDisabled = errors.New("screen kind disabled")
	// ErrClosed is returned when acting on a closed screen.
	ErrClosed = errors.New("screen closed")
)
