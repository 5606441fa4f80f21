package simulate

import "errors"

var (
	// ErrNotDeduplicated is returned when a replayed action was applied again.
	ErrNotDeduplicated = errors.New("replayed action was not deduplicated")
	// ErrTimeout is returned when a timed transition never happened.
	ErrTimeout = errors.New("timed out waiting for transition")
	// ErrVerification is returned when the server counters disagree with the run.
	ErrVerification = errors.New("verification failed")
)
