// Package screen hosts one game screen per session: it turns client actions
// into state machine events and machine state into JSON views.
package screen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/flashcard"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/pkg/logger"
)

// Kind names a screen.
type Kind string

const (
	KindSpinner   Kind = "spinner"
	KindFlashcard Kind = "flashcard"
	KindMood      Kind = "mood"
	KindSentence  Kind = "sentence"
)

// Kinds lists every screen kind.
var Kinds = []Kind{KindSpinner, KindFlashcard, KindMood, KindSentence}

// ParseKind converts a client kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Screen is one hosted game screen.
type Screen interface {
	Kind() Kind
	// Apply performs one client action and returns the resulting view.
	Apply(ctx context.Context, a model.Action) (any, error)
	View() any
	// Close cancels every pending timer. Later actions return ErrClosed.
	Close()
}

// Timings holds the delays of the timed transitions.
type Timings struct {
	SpinTurns        int
	SpinDuration     time.Duration
	WrongFlash       time.Duration
	FlashcardAdvance time.Duration
	MoodVoteTTL      time.Duration
}

// DefaultTimings returns the classroom defaults.
func DefaultTimings() Timings {
	return Timings{
		SpinTurns:        5,
		SpinDuration:     3 * time.Second,
		WrongFlash:       500 * time.Millisecond,
		FlashcardAdvance: 500 * time.Millisecond,
		MoodVoteTTL:      2 * time.Second,
	}
}

// Options are the collaborators and parameters of a new screen.
type Options struct {
	Catalog    catalog.Catalog
	Timings    Timings
	Difficulty flashcard.Difficulty
	Clock      fsm.Clock
	Rand       *rand.Rand
	Logger     logger.Logger

	// Celebrate receives every burst. It must not block.
	Celebrate func(fsm.Burst)
	// OnChange runs after every applied event, including timer expiries.
	OnChange func()
}

func (o *Options) defaults() {
	if o.Clock == nil {
		o.Clock = fsm.RealClock()
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // game randomness
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Difficulty == "" {
		o.Difficulty = flashcard.Medium
	}
}

func (o Options) machineOptions(onChange func()) []fsm.Option {
	return []fsm.Option{
		fsm.WithClock(o.Clock),
		fsm.WithCelebrate(o.Celebrate),
		fsm.WithOnChange(onChange),
		fsm.WithLogger(o.Logger),
	}
}

// New creates a screen of the given kind.
func New(kind Kind, opts Options) (Screen, error) {
	opts.defaults()
	if err := opts.Catalog.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case KindSpinner:
		return newSpinner(opts)
	case KindFlashcard:
		return newFlashcard(opts), nil
	case KindMood:
		return newMood(opts), nil
	case KindSentence:
		return newSentence(opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}
