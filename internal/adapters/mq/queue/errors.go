package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("celebration queue full")
	ErrClosed = errors.New("celebration queue closed")
)
