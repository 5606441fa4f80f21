package screen

import (
	"context"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/flashcard"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/metrics"
)

type flashcardScreen struct {
	animals []catalog.Animal
	m       *fsm.Machine[flashcard.State, flashcard.Event]
}

func newFlashcard(opts Options) *flashcardScreen {
	box := flashcard.NewBox(opts.Catalog.Animals, opts.Timings.FlashcardAdvance)
	return &flashcardScreen{
		animals: opts.Catalog.Animals,
		m:       fsm.New(flashcard.Initial(opts.Difficulty), box.Reduce, opts.machineOptions(opts.OnChange)...),
	}
}

func (s *flashcardScreen) Kind() Kind { return KindFlashcard }

func (s *flashcardScreen) Apply(_ context.Context, a model.Action) (any, error) {
	var ev flashcard.Event
	switch a.Type {
	case model.ActionOpen:
		ev = flashcard.Open{}
	case model.ActionDifficulty:
		d, err := flashcard.ParseDifficulty(a.Difficulty)
		if err != nil || a.Difficulty == "" {
			return nil, invalid("difficulty %q", a.Difficulty)
		}
		ev = flashcard.SetDifficulty{Level: d}
	default:
		return nil, invalid("flashcard does not accept %q", a.Type)
	}

	prev, next, ok := s.m.Step(ev)
	if !ok {
		return nil, ErrClosed
	}
	if next.Reveals > prev.Reveals {
		metrics.RecordFlashcardReveal(string(next.Difficulty))
	}
	return s.render(next), nil
}

func (s *flashcardScreen) View() any { return s.render(s.m.State()) }

func (s *flashcardScreen) Close() { s.m.Close() }

func (s *flashcardScreen) render(st flashcard.State) types.FlashcardView {
	v := types.FlashcardView{
		Phase:      string(st.Phase),
		Index:      st.Index,
		Total:      len(s.animals),
		Open:       st.Phase == flashcard.PhaseRevealed,
		Difficulty: string(st.Difficulty),
		DelayMS:    st.Difficulty.Delay().Milliseconds(),
		Reveals:    st.Reveals,
	}
	for _, d := range flashcard.Difficulties {
		v.Difficulties = append(v.Difficulties, string(d))
	}
	if v.Open {
		a := s.animals[st.Index]
		v.Animal = &a
	}
	return v
}
