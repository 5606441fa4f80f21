package screen_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/internal/screen"
	. "github.com/smartystreets/goconvey/convey"
)

type harness struct {
	clock   *fsm.ManualClock
	bursts  []fsm.Burst
	changes atomic.Int64
}

func newScreen(kind screen.Kind) (screen.Screen, *harness) {
	h := &harness{clock: fsm.NewManualClock(time.Unix(1700000000, 0))}
	s, err := screen.New(kind, screen.Options{
		Catalog:   catalog.Default(),
		Timings:   screen.DefaultTimings(),
		Clock:     h.clock,
		Rand:      rand.New(rand.NewSource(1)),
		Celebrate: func(b fsm.Burst) { h.bursts = append(h.bursts, b) },
		OnChange:  func() { h.changes.Add(1) },
	})
	So(err, ShouldBeNil)
	return s, h
}

func TestParseKind(t *testing.T) {
	Convey("Given kind names", t, func() {
		k, err := screen.ParseKind("mood")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, screen.KindMood)

		_, err = screen.ParseKind("chess")
		So(errors.Is(err, screen.ErrUnknownKind), ShouldBeTrue)

		_, err = screen.New("chess", screen.Options{Catalog: catalog.Default()})
		So(errors.Is(err, screen.ErrUnknownKind), ShouldBeTrue)
	})
}

func TestSpinnerScreen(t *testing.T) {
	ctx := context.Background()

	Convey("Given a spinner screen", t, func() {
		s, h := newScreen(screen.KindSpinner)
		defer s.Close()
		So(s.Kind(), ShouldEqual, screen.KindSpinner)

		Convey("A spin hides the target until the dial settles", func() {
			out, err := s.Apply(ctx, model.Action{Type: model.ActionSpin})
			So(err, ShouldBeNil)
			v := out.(types.SpinnerView)
			So(v.Phase, ShouldEqual, "spinning")
			So(v.Rotation, ShouldBeBetweenOrEqual, 1800, 2159)
			So(v.Target, ShouldBeNil)

			h.clock.Advance(3 * time.Second)
			v = s.View().(types.SpinnerView)
			So(v.Phase, ShouldEqual, "guessing")
			So(v.Target, ShouldNotBeNil)

			Convey("Guessing the target wins", func() {
				out, err := s.Apply(ctx, model.Action{Type: model.ActionGuess, Label: v.Target.Label})
				So(err, ShouldBeNil)
				So(out.(types.SpinnerView).Phase, ShouldEqual, "win")
				So(h.bursts, ShouldHaveLength, 1)
			})
		})

		Convey("Unknown labels and actions are rejected", func() {
			_, err := s.Apply(ctx, model.Action{Type: model.ActionGuess, Label: "Good Day"})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)

			_, err = s.Apply(ctx, model.Action{Type: model.ActionVote})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)
		})

		Convey("A closed screen refuses actions", func() {
			s.Close()
			_, err := s.Apply(ctx, model.Action{Type: model.ActionSpin})
			So(errors.Is(err, screen.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestFlashcardScreen(t *testing.T) {
	ctx := context.Background()

	Convey("Given a flashcard screen", t, func() {
		s, h := newScreen(screen.KindFlashcard)
		defer s.Close()

		Convey("Opening shows the animal until the delay passes", func() {
			out, err := s.Apply(ctx, model.Action{Type: model.ActionOpen})
			So(err, ShouldBeNil)
			v := out.(types.FlashcardView)
			So(v.Open, ShouldBeTrue)
			So(v.Animal.Word, ShouldEqual, "LION")
			So(v.DelayMS, ShouldEqual, 1500)

			h.clock.Advance(2 * time.Second)
			v = s.View().(types.FlashcardView)
			So(v.Open, ShouldBeFalse)
			So(v.Animal, ShouldBeNil)
			So(v.Index, ShouldEqual, 1)
			So(h.changes.Load(), ShouldEqual, 3)
		})

		Convey("Difficulty can be changed", func() {
			out, err := s.Apply(ctx, model.Action{Type: model.ActionDifficulty, Difficulty: "easy"})
			So(err, ShouldBeNil)
			So(out.(types.FlashcardView).DelayMS, ShouldEqual, 2000)

			_, err = s.Apply(ctx, model.Action{Type: model.ActionDifficulty, Difficulty: "extreme"})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)
		})
	})
}

func TestMoodScreen(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mood screen", t, func() {
		s, h := newScreen(screen.KindMood)
		defer s.Close()

		Convey("A vote shows a bubble for two seconds", func() {
			out, err := s.Apply(ctx, model.Action{Type: model.ActionVote, Mood: "sleepy"})
			So(err, ShouldBeNil)
			v := out.(types.MoodView)
			So(v.Votes, ShouldHaveLength, 1)
			So(v.Votes[0].Emoji, ShouldEqual, "😴")
			So(v.Tally["sleepy"], ShouldEqual, 1)

			h.clock.Advance(2 * time.Second)
			v = s.View().(types.MoodView)
			So(v.Votes, ShouldBeEmpty)
			So(v.Total, ShouldEqual, 1)
		})

		Convey("Unknown moods are rejected", func() {
			_, err := s.Apply(ctx, model.Action{Type: model.ActionVote, Mood: "bored"})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)
		})
	})
}

func TestSentenceScreen(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sentence screen", t, func() {
		s, h := newScreen(screen.KindSentence)
		defer s.Close()

		v := s.View().(types.SentenceView)
		So(v.Cards, ShouldHaveLength, 5)
		So(v.Progress, ShouldEqual, "0 / 5")
		So(v.Completed, ShouldBeEmpty)

		Convey("Check before every slot is filled is refused", func() {
			_, err := s.Apply(ctx, model.Action{Type: model.ActionOpen, ChallengeID: 4})
			So(err, ShouldBeNil)
			_, err = s.Apply(ctx, model.Action{Type: model.ActionChoose, Slot: "subject", Word: "I"})
			So(err, ShouldBeNil)
			_, err = s.Apply(ctx, model.Action{Type: model.ActionCheck})
			So(errors.Is(err, screen.ErrIncompleteSelection), ShouldBeTrue)
		})

		Convey("A correct sentence completes the challenge", func() {
			steps := []model.Action{
				{Type: model.ActionOpen, ChallengeID: 5},
				{Type: model.ActionChoose, Slot: "subject", Word: "They"},
				{Type: model.ActionChoose, Slot: "verb", Word: "are"},
				{Type: model.ActionChoose, Slot: "descriptor", Word: "Happy"},
			}
			for _, a := range steps {
				_, err := s.Apply(ctx, a)
				So(err, ShouldBeNil)
			}
			out, err := s.Apply(ctx, model.Action{Type: model.ActionCheck})
			So(err, ShouldBeNil)
			v := out.(types.SentenceView)
			So(v.Completed, ShouldResemble, []int{5})
			So(v.Progress, ShouldEqual, "1 / 5")
			So(v.ActiveID, ShouldEqual, 0)
			So(h.bursts, ShouldHaveLength, 1)

			Convey("And it cannot be opened again", func() {
				_, err := s.Apply(ctx, model.Action{Type: model.ActionOpen, ChallengeID: 5})
				So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)
			})
		})

		Convey("Concurrent opens admit exactly one challenge", func() {
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				opened   []int
				shown    []int
				rejected int
			)
			for i := range 20 {
				id := i%5 + 1
				wg.Add(1)
				go func() {
					defer wg.Done()
					out, err := s.Apply(ctx, model.Action{Type: model.ActionOpen, ChallengeID: id})
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						if errors.Is(err, screen.ErrInvalidAction) {
							rejected++
						}
						return
					}
					opened = append(opened, id)
					shown = append(shown, out.(types.SentenceView).ActiveID)
				}()
			}
			wg.Wait()

			So(opened, ShouldHaveLength, 1)
			So(rejected, ShouldEqual, 19)
			So(shown, ShouldResemble, opened)
			So(s.View().(types.SentenceView).ActiveID, ShouldEqual, opened[0])
		})

		Convey("Bad slots and words are rejected", func() {
			_, err := s.Apply(ctx, model.Action{Type: model.ActionChoose, Slot: "subject", Word: "He"})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)

			s.Apply(ctx, model.Action{Type: model.ActionOpen, ChallengeID: 1})
			_, err = s.Apply(ctx, model.Action{Type: model.ActionChoose, Slot: "object", Word: "He"})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)
			_, err = s.Apply(ctx, model.Action{Type: model.ActionChoose, Slot: "verb", Word: "be"})
			So(errors.Is(err, screen.ErrInvalidAction), ShouldBeTrue)
		})
	})
}
