package moodpoll_test

import (
	"testing"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/moodpoll"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPoll(t *testing.T) {
	Convey("Given a mood poll with a two second display", t, func() {
		clock := fsm.NewManualClock(time.Unix(0, 0))
		poll := moodpoll.NewPoll(2 * time.Second)
		m := fsm.New(moodpoll.State{}, poll.Reduce, fsm.WithClock(clock))
		happy, _ := catalog.Default().Mood("happy")
		sad, _ := catalog.Default().Mood("sad")

		Convey("A vote is shown at once and expires on its own", func() {
			st, _ := m.Send(moodpoll.Cast{Mood: happy, At: clock.Now()})
			So(st.Active(), ShouldHaveLength, 1)
			So(st.Active()[0].Mood.ID, ShouldEqual, "happy")

			clock.Advance(1999 * time.Millisecond)
			So(m.State().Active(), ShouldHaveLength, 1)

			clock.Advance(time.Millisecond)
			So(m.State().Active(), ShouldBeEmpty)
			So(m.State().Tally["happy"], ShouldEqual, 1)
		})

		Convey("Each vote expires on its own schedule", func() {
			m.Send(moodpoll.Cast{Mood: happy, At: clock.Now()})
			clock.Advance(time.Second)
			m.Send(moodpoll.Cast{Mood: sad, At: clock.Now()})

			clock.Advance(time.Second)
			active := m.State().Active()
			So(active, ShouldHaveLength, 1)
			So(active[0].Mood.ID, ShouldEqual, "sad")

			clock.Advance(time.Second)
			So(m.State().Active(), ShouldBeEmpty)
			So(m.State().Cast, ShouldEqual, 2)
		})

		Convey("A stale expiry leaves the slot's new vote alone", func() {
			st, _ := m.Send(moodpoll.Cast{Mood: happy, At: clock.Now()})
			old := st.Active()[0].Handle
			clock.Advance(2 * time.Second)

			st, _ = m.Send(moodpoll.Cast{Mood: sad, At: clock.Now()})
			So(st.Active()[0].Handle.Index, ShouldEqual, old.Index)

			st, _ = m.Send(moodpoll.Expire{Handle: old})
			So(st.Active(), ShouldHaveLength, 1)
		})

		Convey("Earlier states are not changed by later votes", func() {
			before, _ := m.Send(moodpoll.Cast{Mood: happy, At: clock.Now()})
			m.Send(moodpoll.Cast{Mood: happy, At: clock.Now()})
			So(before.Votes.Len(), ShouldEqual, 1)
			So(before.Tally["happy"], ShouldEqual, 1)
		})
	})
}
