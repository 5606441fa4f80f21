package wheel

import "errors"

var (
	// ErrNoSectors is returned when a wheel is built without sectors.
	ErrNoSectors = errors.New("wheel needs at least one sector")
	// ErrInvalidTurns is returned for a negative number of full turns.
	ErrInvalidTurns = errors.New("full turns must not be negative")
)
