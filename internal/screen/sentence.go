package screen

import (
	"context"
	"fmt"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/grammar"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/metrics"
)

type sentenceScreen struct {
	cat     catalog.Catalog
	builder *grammar.Builder
	m       *fsm.Machine[grammar.State, grammar.Event]
}

func newSentence(opts Options) *sentenceScreen {
	b := grammar.NewBuilder(opts.Catalog, opts.Timings.WrongFlash)
	return &sentenceScreen{
		cat:     opts.Catalog,
		builder: b,
		m:       fsm.New(grammar.State{}, b.Reduce, opts.machineOptions(opts.OnChange)...),
	}
}

func (s *sentenceScreen) Kind() Kind { return KindSentence }

func (s *sentenceScreen) Apply(_ context.Context, a model.Action) (any, error) {
	ev, err := s.event(a)
	if err != nil {
		return nil, err
	}
	if err := s.admit(ev, s.m.State()); err != nil {
		return nil, err
	}
	prev, next, ok := s.m.Step(ev)
	if !ok {
		return nil, ErrClosed
	}
	// Another action may have landed between the first check and Step, in
	// which case the reducer ignored ev.
	if err := s.admit(ev, prev); err != nil {
		return nil, err
	}
	if next.Attempts > prev.Attempts {
		result := "wrong"
		if next.Completed.Len() > prev.Completed.Len() {
			result = "correct"
		}
		metrics.RecordSentenceCheck(result)
	}
	return s.render(next), nil
}

func (s *sentenceScreen) event(a model.Action) (grammar.Event, error) {
	switch a.Type {
	case model.ActionOpen:
		return grammar.Open{ChallengeID: a.ChallengeID}, nil
	case model.ActionChoose:
		slot, err := grammar.ParseSlot(a.Slot)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
		}
		if !s.builder.Offers(slot, a.Word) {
			return nil, invalid("%q is not a %s option", a.Word, slot)
		}
		return grammar.Choose{Slot: slot, Word: a.Word}, nil
	case model.ActionCheck:
		return grammar.Check{}, nil
	case model.ActionClose:
		return grammar.Close{}, nil
	}
	return nil, invalid("sentence does not accept %q", a.Type)
}

// admit reports whether ev changes st.
func (s *sentenceScreen) admit(ev grammar.Event, st grammar.State) error {
	switch ev := ev.(type) {
	case grammar.Open:
		if !s.builder.CanOpen(st, ev.ChallengeID) {
			return invalid("challenge %d cannot be opened", ev.ChallengeID)
		}
	case grammar.Choose:
		if !st.IsOpen() {
			return invalid("no challenge is open")
		}
	case grammar.Check:
		if !st.IsOpen() {
			return invalid("no challenge is open")
		}
		if !st.Selection.Complete() {
			return ErrIncompleteSelection
		}
	}
	return nil
}

func (s *sentenceScreen) View() any { return s.render(s.m.State()) }

func (s *sentenceScreen) Close() { s.m.Close() }

func (s *sentenceScreen) render(st grammar.State) types.SentenceView {
	v := types.SentenceView{
		ActiveID:   st.ActiveID,
		Subject:    st.Selection.Subject,
		Verb:       st.Selection.Verb,
		Descriptor: st.Selection.Descriptor,
		CanCheck:   st.IsOpen() && st.Selection.Complete(),
		Error:      st.Error,
		Completed:  st.Completed.IDs(),
		Progress:   fmt.Sprintf("%d / %d", st.Completed.Len(), len(s.cat.Challenges)),
		Options:    s.cat.Options,
	}
	if v.Completed == nil {
		v.Completed = []int{}
	}
	for _, ch := range s.cat.Challenges {
		v.Cards = append(v.Cards, types.ChallengeCard{
			ID:        ch.ID,
			ImageRef:  ch.ImageRef,
			Completed: st.Completed.Has(ch.ID),
		})
	}
	return v
}
