package wheel_test

import (
	"testing"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/wheel"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSpinner(t *testing.T) {
	Convey("Given a spinner machine on a manual clock", t, func() {
		w, err := wheel.NewWheel(catalog.Default().Sectors, 5)
		So(err, ShouldBeNil)
		clock := fsm.NewManualClock(time.Unix(0, 0))
		var bursts []fsm.Burst
		sp := wheel.NewSpinner(w, 3*time.Second, 500*time.Millisecond)
		m := fsm.New(wheel.State{Phase: wheel.PhaseIdle}, sp.Reduce,
			fsm.WithClock(clock),
			fsm.WithCelebrate(func(b fsm.Burst) { bursts = append(bursts, b) }),
		)

		Convey("A spin computes the outcome and settles after the spin duration", func() {
			st, _ := m.Send(wheel.Spin{Rotation: 1845})
			So(st.Phase, ShouldEqual, wheel.PhaseSpinning)
			So(st.Outcome.Sector.Label, ShouldEqual, "Good Night")

			Convey("A second spin while spinning is ignored", func() {
				st, _ := m.Send(wheel.Spin{Rotation: 1800})
				So(st.Spins, ShouldEqual, 1)
				So(st.Outcome.Rotation, ShouldEqual, 1845)
			})

			Convey("Guesses before settling are ignored", func() {
				st, _ := m.Send(wheel.Guess{Label: "Good Night"})
				So(st.Phase, ShouldEqual, wheel.PhaseSpinning)
			})

			clock.Advance(3 * time.Second)
			So(m.State().Phase, ShouldEqual, wheel.PhaseGuessing)

			Convey("A wrong guess flashes and clears after 500ms", func() {
				st, _ := m.Send(wheel.Guess{Label: "Good Morning"})
				So(st.Phase, ShouldEqual, wheel.PhaseGuessing)
				So(st.Wrong, ShouldEqual, "Good Morning")
				So(st.Misses, ShouldEqual, 1)

				clock.Advance(500 * time.Millisecond)
				So(m.State().Wrong, ShouldBeEmpty)
				So(m.State().Phase, ShouldEqual, wheel.PhaseGuessing)
			})

			Convey("The right guess wins and celebrates", func() {
				st, _ := m.Send(wheel.Guess{Label: "Good Night"})
				So(st.Phase, ShouldEqual, wheel.PhaseWin)
				So(st.Wins, ShouldEqual, 1)
				So(bursts, ShouldHaveLength, 1)
				So(bursts[0].ParticleCount, ShouldEqual, 150)
				So(bursts[0].Spread, ShouldEqual, 70)
				So(bursts[0].OriginY, ShouldEqual, 0.6)
				So(bursts[0].Colors, ShouldResemble, []string{"#191970", "#ffffff"})

				Convey("Reset returns to idle", func() {
					st, _ := m.Send(wheel.Reset{})
					So(st.Phase, ShouldEqual, wheel.PhaseIdle)
					So(st.Wins, ShouldEqual, 1)
				})
			})

			Convey("A win right after a miss drops the pending flash", func() {
				m.Send(wheel.Guess{Label: "Good Morning"})
				st, _ := m.Send(wheel.Guess{Label: "Good Night"})
				So(st.Wrong, ShouldBeEmpty)
				So(m.Pending(), ShouldEqual, 0)
			})
		})

		Convey("Reset outside the win screen does nothing", func() {
			st, _ := m.Send(wheel.Reset{})
			So(st.Phase, ShouldEqual, wheel.PhaseIdle)
		})
	})
}
