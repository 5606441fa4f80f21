package service

import (
	"errors"

	"github.com/okian/classplay/internal/adapters/repository"
	"github.com/okian/classplay/internal/screen"
)

// Sentinel kinds returned by the service. Errors from lower layers are
// re-exported so callers only need this package to classify them.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidInput = errors.New("invalid input")

	ErrSessionNotFound     = repository.ErrNotFound
	ErrCapacity            = repository.ErrCapacity
	ErrUnknownKind         = screen.ErrUnknownKind
	ErrKindDisabled        = screen.ErrKindDisabled
	ErrInvalidAction       = screen.ErrInvalidAction
	ErrIncompleteSelection = screen.ErrIncompleteSelection
	ErrSessionClosed       = screen.ErrClosed
)
