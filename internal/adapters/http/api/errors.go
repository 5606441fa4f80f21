package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/classplay/internal/adapters/repository"
	"github.com/okian/classplay/internal/domain/flashcard"
	"github.com/okian/classplay/internal/screen"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnsupported = errors.New("streaming unsupported")
)

// opError annotates err with the handler operation that produced it.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }

func (e *opError) Unwrap() error { return e.err }

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind annotates cause with op and marks it as kind.
func WrapKind(op string, kind, cause error) error {
	return &opError{op: op, err: fmt.Errorf("%w: %w", kind, cause)}
}

// classify maps a domain error to a status code and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, screen.ErrInvalidAction),
		errors.Is(err, screen.ErrUnknownKind),
		errors.Is(err, flashcard.ErrUnknownDifficulty):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, screen.ErrKindDisabled):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, screen.ErrIncompleteSelection):
		return http.StatusConflict, "incomplete_selection"
	case errors.Is(err, screen.ErrClosed):
		return http.StatusGone, "session_closed"
	case errors.Is(err, repository.ErrCapacity):
		return http.StatusTooManyRequests, "capacity"
	}
	return http.StatusInternalServerError, "internal_error"
}
