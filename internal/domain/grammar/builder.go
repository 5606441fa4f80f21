package grammar

import (
	"slices"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
)

const (
	keyClearError = "clear-error"

	solvedEvent = "sentence.solved"
)

// State is the sentence screen state. ActiveID is zero while the modal is closed.
type State struct {
	ActiveID  int           `json:"active_id,omitempty"`
	Selection Selection     `json:"selection"`
	Error     bool          `json:"error"`
	Last      *Result       `json:"last,omitempty"`
	Completed CompletionSet `json:"-"`
	Attempts  int           `json:"attempts"`
}

// IsOpen reports whether a challenge modal is open.
func (s State) IsOpen() bool { return s.ActiveID != 0 }

// Event drives the sentence builder.
type Event interface {
	sentenceEvent()
}

type (
	// Open shows the modal for a challenge.
	Open struct{ ChallengeID int }
	// Choose fills one slot.
	Choose struct {
		Slot Slot
		Word string
	}
	// Check validates the current selection.
	Check struct{}
	// ClearError removes the error flash.
	ClearError struct{}
	// Close dismisses the modal.
	Close struct{}
)

func (Open) sentenceEvent()       {}
func (Choose) sentenceEvent()     {}
func (Check) sentenceEvent()      {}
func (ClearError) sentenceEvent() {}
func (Close) sentenceEvent()      {}

// Builder is the reducer of the sentence screen.
type Builder struct {
	cat        catalog.Catalog
	errorFlash time.Duration
}

// NewBuilder returns a sentence reducer over cat.
func NewBuilder(cat catalog.Catalog, errorFlash time.Duration) *Builder {
	return &Builder{cat: cat, errorFlash: errorFlash}
}

// Offers reports whether word is one of the options of slot.
func (b *Builder) Offers(slot Slot, word string) bool {
	switch slot {
	case SlotSubject:
		return slices.Contains(b.cat.Options.Subjects, word)
	case SlotVerb:
		return slices.Contains(b.cat.Options.Verbs, word)
	case SlotDescriptor:
		return slices.Contains(b.cat.Options.Descriptors, word)
	}
	return false
}

// CanOpen reports whether the modal for id may be opened from s.
func (b *Builder) CanOpen(s State, id int) bool {
	if s.IsOpen() || s.Completed.Has(id) {
		return false
	}
	_, ok := b.cat.Challenge(id)
	return ok
}

// Reduce applies one event.
func (b *Builder) Reduce(s State, e Event) (State, []fsm.Command) {
	switch ev := e.(type) {
	case Open:
		if !b.CanOpen(s, ev.ChallengeID) {
			return s, nil
		}
		s.ActiveID = ev.ChallengeID
		s.Selection = Selection{}
		s.Error = false
		s.Last = nil
		return s, nil

	case Choose:
		if !s.IsOpen() || !b.Offers(ev.Slot, ev.Word) {
			return s, nil
		}
		s.Selection = s.Selection.With(ev.Slot, ev.Word)
		return s, nil

	case Check:
		if !s.IsOpen() || !s.Selection.Complete() {
			return s, nil
		}
		ch, ok := b.cat.Challenge(s.ActiveID)
		if !ok {
			return s, nil
		}
		res := Validate(ch, s.Selection)
		s.Last = &res
		s.Attempts++
		if !res.Success {
			s.Error = true
			return s, []fsm.Command{
				fsm.Schedule[Event]{Key: keyClearError, After: b.errorFlash, Event: ClearError{}},
			}
		}
		s.Completed = s.Completed.Add(s.ActiveID)
		s.ActiveID = 0
		s.Selection = Selection{}
		s.Error = false
		return s, []fsm.Command{
			fsm.Cancel{Key: keyClearError},
			fsm.Celebrate{Burst: fsm.Burst{Event: solvedEvent, ParticleCount: 150, Spread: 70}},
		}

	case ClearError:
		s.Error = false
		return s, nil

	case Close:
		if !s.IsOpen() {
			return s, nil
		}
		s.ActiveID = 0
		s.Selection = Selection{}
		s.Error = false
		return s, []fsm.Command{fsm.Cancel{Key: keyClearError}}
	}
	return s, nil
}
