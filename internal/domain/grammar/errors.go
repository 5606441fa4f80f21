package grammar

import "errors"

var (
	// ErrIncompleteSelection is returned when a sentence is checked before every slot is filled.
	ErrIncompleteSelection = errors.New("sentence selection is incomplete")
	// ErrUnknownSlot is returned for a slot outside subject, verb and descriptor.
	ErrUnknownSlot = errors.New("unknown sentence slot")
)
