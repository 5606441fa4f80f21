package screen

import (
	"context"
	"sync"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/moodpoll"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/metrics"
)

type moodScreen struct {
	cat   catalog.Catalog
	clock fsm.Clock
	m     *fsm.Machine[moodpoll.State, moodpoll.Event]

	// live mirrors the number of displayed votes reported to metrics
	liveMu sync.Mutex
	live   int
	closed bool
}

func newMood(opts Options) *moodScreen {
	s := &moodScreen{cat: opts.Catalog, clock: opts.Clock}
	poll := moodpoll.NewPoll(opts.Timings.MoodVoteTTL)
	s.m = fsm.New(moodpoll.State{}, poll.Reduce, opts.machineOptions(func() {
		s.syncLive()
		if opts.OnChange != nil {
			opts.OnChange()
		}
	})...)
	return s
}

func (s *moodScreen) Kind() Kind { return KindMood }

func (s *moodScreen) Apply(_ context.Context, a model.Action) (any, error) {
	if a.Type != model.ActionVote {
		return nil, invalid("mood poll does not accept %q", a.Type)
	}
	mood, ok := s.cat.Mood(a.Mood)
	if !ok {
		return nil, invalid("unknown mood %q", a.Mood)
	}
	next, ok := s.m.Send(moodpoll.Cast{Mood: mood, At: s.clock.Now()})
	if !ok {
		return nil, ErrClosed
	}
	metrics.RecordMoodVote(mood.ID)
	return s.render(next), nil
}

func (s *moodScreen) View() any { return s.render(s.m.State()) }

func (s *moodScreen) Close() {
	s.m.Close()
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	metrics.AddMoodVotesActive(-s.live)
	s.live = 0
	s.closed = true
}

func (s *moodScreen) syncLive() {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	if s.closed {
		return
	}
	n := s.m.State().Votes.Len()
	metrics.AddMoodVotesActive(n - s.live)
	s.live = n
}

func (s *moodScreen) render(st moodpoll.State) types.MoodView {
	v := types.MoodView{
		Moods: s.cat.Moods,
		Votes: []types.MoodVoteView{},
		Tally: make(map[string]int, len(st.Tally)),
		Total: st.Cast,
	}
	for _, vote := range st.Active() {
		v.Votes = append(v.Votes, types.MoodVoteView{
			ID:     vote.Handle.String(),
			Mood:   vote.Mood.ID,
			Emoji:  vote.Mood.Emoji,
			Label:  vote.Mood.Label,
			Color:  vote.Mood.Color,
			CastAt: vote.CastAt,
		})
	}
	for k, n := range st.Tally {
		v.Tally[k] = n
	}
	return v
}
