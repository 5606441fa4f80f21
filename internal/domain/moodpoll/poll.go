// Package moodpoll runs the mood-poll screen, where every click shows a vote
// bubble that disappears on its own after a fixed time.
package moodpoll

import (
	"maps"
	"sort"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
)

// Vote is one displayed bubble.
type Vote struct {
	Handle Handle       `json:"handle"`
	Mood   catalog.Mood `json:"mood"`
	Seq    int          `json:"seq"`
	CastAt time.Time    `json:"cast_at"`
}

// State is the mood-poll screen state. The arena is never mutated in place.
type State struct {
	Votes *Arena[Vote]
	Cast  int
	Tally map[string]int
}

// Active returns the displayed votes, oldest first.
func (s State) Active() []Vote {
	votes := s.Votes.Live()
	sort.Slice(votes, func(i, j int) bool { return votes[i].Seq < votes[j].Seq })
	return votes
}

// Event drives the poll.
type Event interface {
	moodEvent()
}

type (
	// Cast adds a vote for Mood at time At.
	Cast struct {
		Mood catalog.Mood
		At   time.Time
	}
	// Expire removes the vote behind Handle.
	Expire struct{ Handle Handle }
)

func (Cast) moodEvent()   {}
func (Expire) moodEvent() {}

// Poll is the reducer of the mood-poll screen.
type Poll struct {
	ttl time.Duration
}

// NewPoll returns a reducer whose votes live for ttl.
func NewPoll(ttl time.Duration) *Poll {
	return &Poll{ttl: ttl}
}

// Reduce applies one event.
func (p *Poll) Reduce(s State, e Event) (State, []fsm.Command) {
	switch ev := e.(type) {
	case Cast:
		votes := s.Votes.Clone()
		s.Cast++
		v := Vote{Mood: ev.Mood, Seq: s.Cast, CastAt: ev.At}
		h := votes.Insert(v)
		v.Handle = h
		votes.Set(h, v)
		s.Votes = votes

		tally := maps.Clone(s.Tally)
		if tally == nil {
			tally = make(map[string]int)
		}
		tally[ev.Mood.ID]++
		s.Tally = tally

		return s, []fsm.Command{
			fsm.Schedule[Event]{Key: "vote/" + h.String(), After: p.ttl, Event: Expire{Handle: h}},
		}

	case Expire:
		if _, ok := s.Votes.Get(ev.Handle); !ok {
			return s, nil
		}
		votes := s.Votes.Clone()
		votes.Remove(ev.Handle)
		s.Votes = votes
		return s, nil
	}
	return s, nil
}
