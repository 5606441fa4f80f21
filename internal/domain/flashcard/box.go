// Package flashcard runs the animal memory box: a card is revealed, hidden
// again after a difficulty-dependent delay, and the box moves to the next animal.
package flashcard

import (
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
)

// Phase of the box.
type Phase string

const (
	PhaseHidden    Phase = "hidden"
	PhaseRevealed  Phase = "revealed"
	PhaseAdvancing Phase = "advancing"
)

const (
	keyHide    = "hide"
	keyAdvance = "advance"

	revealEvent = "flashcard.reveal"
)

// State is the flashcard screen state.
type State struct {
	Phase      Phase      `json:"phase"`
	Index      int        `json:"index"`
	Difficulty Difficulty `json:"difficulty"`
	Reveals    int        `json:"reveals"`
}

// Event drives the box.
type Event interface {
	flashcardEvent()
}

type (
	// Open reveals the current card.
	Open struct{}
	// Hide closes the box after the reveal delay.
	Hide struct{}
	// Advance moves to the next animal.
	Advance struct{}
	// SetDifficulty changes the reveal delay for later reveals.
	SetDifficulty struct{ Level Difficulty }
)

func (Open) flashcardEvent()          {}
func (Hide) flashcardEvent()          {}
func (Advance) flashcardEvent()       {}
func (SetDifficulty) flashcardEvent() {}

// Box is the reducer of the flashcard screen.
type Box struct {
	size    int
	advance time.Duration
}

// NewBox returns a reducer cycling through animals. advance is the pause
// between hiding a card and showing the next one.
func NewBox(animals []catalog.Animal, advance time.Duration) *Box {
	return &Box{size: len(animals), advance: advance}
}

// Initial returns the starting state at level d.
func Initial(d Difficulty) State {
	return State{Phase: PhaseHidden, Difficulty: d}
}

// Reduce applies one event.
func (b *Box) Reduce(s State, e Event) (State, []fsm.Command) {
	switch ev := e.(type) {
	case Open:
		if s.Phase != PhaseHidden || b.size == 0 {
			return s, nil
		}
		s.Phase = PhaseRevealed
		s.Reveals++
		return s, []fsm.Command{
			fsm.Celebrate{Burst: fsm.Burst{
				Event:         revealEvent,
				ParticleCount: 80,
				Spread:        60,
				OriginY:       0.7,
				Colors:        []string{"#4ade80", "#facc15", "#f87171"},
			}},
			fsm.Schedule[Event]{Key: keyHide, After: s.Difficulty.Delay(), Event: Hide{}},
		}

	case Hide:
		if s.Phase != PhaseRevealed {
			return s, nil
		}
		s.Phase = PhaseAdvancing
		return s, []fsm.Command{
			fsm.Schedule[Event]{Key: keyAdvance, After: b.advance, Event: Advance{}},
		}

	case Advance:
		if s.Phase != PhaseAdvancing {
			return s, nil
		}
		s.Phase = PhaseHidden
		s.Index = (s.Index + 1) % b.size
		return s, nil

	case SetDifficulty:
		s.Difficulty = ev.Level
		return s, nil
	}
	return s, nil
}
