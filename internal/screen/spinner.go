package screen

import (
	"context"
	"math/rand"
	"sync"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/internal/domain/wheel"
	"github.com/okian/classplay/pkg/metrics"
)

type spinnerScreen struct {
	cat   catalog.Catalog
	wheel *wheel.Wheel
	m     *fsm.Machine[wheel.State, wheel.Event]

	rngMu sync.Mutex
	rng   *rand.Rand
}

func newSpinner(opts Options) (*spinnerScreen, error) {
	w, err := wheel.NewWheel(opts.Catalog.Sectors, opts.Timings.SpinTurns)
	if err != nil {
		return nil, err
	}
	reducer := wheel.NewSpinner(w, opts.Timings.SpinDuration, opts.Timings.WrongFlash)
	return &spinnerScreen{
		cat:   opts.Catalog,
		wheel: w,
		rng:   opts.Rand,
		m:     fsm.New(wheel.State{Phase: wheel.PhaseIdle}, reducer.Reduce, opts.machineOptions(opts.OnChange)...),
	}, nil
}

func (s *spinnerScreen) Kind() Kind { return KindSpinner }

func (s *spinnerScreen) Apply(_ context.Context, a model.Action) (any, error) {
	var ev wheel.Event
	switch a.Type {
	case model.ActionSpin:
		s.rngMu.Lock()
		rotation := s.wheel.Spin(s.rng)
		s.rngMu.Unlock()
		ev = wheel.Spin{Rotation: rotation}
	case model.ActionGuess:
		if !s.cat.HasSector(a.Label) {
			return nil, invalid("unknown sector %q", a.Label)
		}
		ev = wheel.Guess{Label: a.Label}
	case model.ActionReset:
		ev = wheel.Reset{}
	default:
		return nil, invalid("spinner does not accept %q", a.Type)
	}

	prev, next, ok := s.m.Step(ev)
	if !ok {
		return nil, ErrClosed
	}
	switch {
	case next.Spins > prev.Spins:
		metrics.RecordSpin(next.Outcome.Sector.Label)
	case next.Wins > prev.Wins:
		metrics.RecordGuess("correct")
	case next.Misses > prev.Misses:
		metrics.RecordGuess("wrong")
	}
	return s.render(next), nil
}

func (s *spinnerScreen) View() any { return s.render(s.m.State()) }

func (s *spinnerScreen) Close() { s.m.Close() }

func (s *spinnerScreen) render(st wheel.State) types.SpinnerView {
	v := types.SpinnerView{
		Phase:   string(st.Phase),
		Options: s.wheel.Sectors(),
		Wrong:   st.Wrong,
		Spins:   st.Spins,
		Wins:    st.Wins,
		Misses:  st.Misses,
	}
	if st.Outcome != nil {
		v.Rotation = st.Outcome.Rotation
		v.FinalAngle = st.Outcome.FinalAngle
		// the target stays hidden until the dial has settled
		if st.Phase != wheel.PhaseSpinning {
			sec := st.Outcome.Sector
			v.Target = &sec
		}
	}
	return v
}
