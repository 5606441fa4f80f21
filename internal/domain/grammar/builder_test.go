package grammar_test

import (
	"testing"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/grammar"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilder(t *testing.T) {
	Convey("Given a sentence machine", t, func() {
		clock := fsm.NewManualClock(time.Unix(0, 0))
		b := grammar.NewBuilder(catalog.Default(), 500*time.Millisecond)
		var bursts []fsm.Burst
		m := fsm.New(grammar.State{}, b.Reduce,
			fsm.WithClock(clock),
			fsm.WithCelebrate(func(x fsm.Burst) { bursts = append(bursts, x) }),
		)

		Convey("Unknown challenges do not open", func() {
			st, _ := m.Send(grammar.Open{ChallengeID: 42})
			So(st.IsOpen(), ShouldBeFalse)
		})

		Convey("Choices outside the option list are ignored", func() {
			m.Send(grammar.Open{ChallengeID: 2})
			st, _ := m.Send(grammar.Choose{Slot: grammar.SlotVerb, Word: "was"})
			So(st.Selection.Verb, ShouldBeEmpty)
			So(b.Offers(grammar.SlotVerb, "was"), ShouldBeFalse)
			So(b.Offers(grammar.SlotVerb, "is"), ShouldBeTrue)
		})

		Convey("A wrong sentence flashes and keeps the selection", func() {
			m.Send(grammar.Open{ChallengeID: 2})
			m.Send(grammar.Choose{Slot: grammar.SlotSubject, Word: "He"})
			m.Send(grammar.Choose{Slot: grammar.SlotVerb, Word: "are"})
			m.Send(grammar.Choose{Slot: grammar.SlotDescriptor, Word: "Happy"})
			st, _ := m.Send(grammar.Check{})
			So(st.Error, ShouldBeTrue)
			So(st.Last.AgreementOK, ShouldBeFalse)
			So(st.Selection.Subject, ShouldEqual, "He")
			So(st.IsOpen(), ShouldBeTrue)

			clock.Advance(500 * time.Millisecond)
			st = m.State()
			So(st.Error, ShouldBeFalse)
			So(st.Selection, ShouldResemble, grammar.Selection{Subject: "He", Verb: "are", Descriptor: "Happy"})

			Convey("Fixing the verb solves it", func() {
				m.Send(grammar.Choose{Slot: grammar.SlotVerb, Word: "is"})
				st, _ := m.Send(grammar.Check{})
				So(st.IsOpen(), ShouldBeFalse)
				So(st.Completed.Has(2), ShouldBeTrue)
				So(st.Selection, ShouldResemble, grammar.Selection{})
				So(st.Attempts, ShouldEqual, 2)
				So(bursts, ShouldHaveLength, 1)
				So(bursts[0].ParticleCount, ShouldEqual, 150)

				Convey("A solved challenge cannot be reopened", func() {
					st, _ := m.Send(grammar.Open{ChallengeID: 2})
					So(st.IsOpen(), ShouldBeFalse)
					So(st.Completed.Len(), ShouldEqual, 1)
				})
			})
		})

		Convey("Check with an incomplete selection is ignored", func() {
			m.Send(grammar.Open{ChallengeID: 4})
			m.Send(grammar.Choose{Slot: grammar.SlotSubject, Word: "I"})
			st, _ := m.Send(grammar.Check{})
			So(st.Attempts, ShouldEqual, 0)
			So(st.Error, ShouldBeFalse)
		})

		Convey("Close resets the selection and cancels the flash", func() {
			m.Send(grammar.Open{ChallengeID: 3})
			m.Send(grammar.Choose{Slot: grammar.SlotSubject, Word: "She"})
			m.Send(grammar.Choose{Slot: grammar.SlotVerb, Word: "is"})
			m.Send(grammar.Choose{Slot: grammar.SlotDescriptor, Word: "Green"})
			m.Send(grammar.Check{})
			st, _ := m.Send(grammar.Close{})
			So(st.IsOpen(), ShouldBeFalse)
			So(st.Selection, ShouldResemble, grammar.Selection{})
			So(st.Error, ShouldBeFalse)
			So(m.Pending(), ShouldEqual, 0)
		})

		Convey("Only one modal is open at a time", func() {
			m.Send(grammar.Open{ChallengeID: 1})
			st, _ := m.Send(grammar.Open{ChallengeID: 5})
			So(st.ActiveID, ShouldEqual, 1)
		})
	})
}
