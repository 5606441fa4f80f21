package wheel

import (
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
)

// Phase of the spinner screen.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSpinning Phase = "spinning"
	PhaseGuessing Phase = "guessing"
	PhaseWin      Phase = "win"
)

const (
	keySettle     = "settle"
	keyClearWrong = "clear-wrong"

	winEvent = "spinner.win"
)

// State is the spinner screen state. Outcome is nil until the first spin.
type State struct {
	Phase   Phase        `json:"phase"`
	Outcome *SpinOutcome `json:"outcome,omitempty"`
	Wrong   string       `json:"wrong,omitempty"`
	Spins   int          `json:"spins"`
	Wins    int          `json:"wins"`
	Misses  int          `json:"misses"`
}

// Event drives the spinner.
type Event interface {
	spinnerEvent()
}

type (
	// Spin starts the dial with a pre-drawn cumulative rotation.
	Spin struct{ Rotation int }
	// Settle ends the spin animation.
	Settle struct{}
	// Guess names a sector label.
	Guess struct{ Label string }
	// ClearWrong removes the wrong-guess flash.
	ClearWrong struct{}
	// Reset returns from the win screen.
	Reset struct{}
)

func (Spin) spinnerEvent()       {}
func (Settle) spinnerEvent()     {}
func (Guess) spinnerEvent()      {}
func (ClearWrong) spinnerEvent() {}
func (Reset) spinnerEvent()      {}

// Spinner is the reducer of the spinner screen.
type Spinner struct {
	wheel        *Wheel
	spinDuration time.Duration
	wrongFlash   time.Duration
}

// NewSpinner returns a spinner reducer over w.
func NewSpinner(w *Wheel, spinDuration, wrongFlash time.Duration) *Spinner {
	return &Spinner{wheel: w, spinDuration: spinDuration, wrongFlash: wrongFlash}
}

// Reduce applies one event.
func (sp *Spinner) Reduce(s State, e Event) (State, []fsm.Command) {
	switch ev := e.(type) {
	case Spin:
		if s.Phase == PhaseSpinning {
			return s, nil
		}
		out := sp.wheel.Outcome(ev.Rotation)
		s.Phase = PhaseSpinning
		s.Outcome = &out
		s.Wrong = ""
		s.Spins++
		return s, []fsm.Command{
			fsm.Cancel{Key: keyClearWrong},
			fsm.Schedule[Event]{Key: keySettle, After: sp.spinDuration, Event: Settle{}},
		}

	case Settle:
		if s.Phase != PhaseSpinning {
			return s, nil
		}
		s.Phase = PhaseGuessing
		return s, nil

	case Guess:
		if s.Phase != PhaseGuessing || s.Outcome == nil {
			return s, nil
		}
		if ev.Label != s.Outcome.Sector.Label {
			s.Wrong = ev.Label
			s.Misses++
			return s, []fsm.Command{
				fsm.Schedule[Event]{Key: keyClearWrong, After: sp.wrongFlash, Event: ClearWrong{}},
			}
		}
		s.Phase = PhaseWin
		s.Wrong = ""
		s.Wins++
		return s, []fsm.Command{
			fsm.Cancel{Key: keyClearWrong},
			fsm.Celebrate{Burst: winBurst(s.Outcome.Sector)},
		}

	case ClearWrong:
		s.Wrong = ""
		return s, nil

	case Reset:
		if s.Phase != PhaseWin {
			return s, nil
		}
		s.Phase = PhaseIdle
		return s, nil
	}
	return s, nil
}

func winBurst(sec catalog.Sector) fsm.Burst {
	return fsm.Burst{
		Event:         winEvent,
		ParticleCount: 150,
		Spread:        70,
		OriginY:       0.6,
		Colors:        []string{sec.Color, "#ffffff"},
	}
}
