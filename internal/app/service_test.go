package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	service "github.com/okian/classplay/internal/app"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startService(opts ...service.Option) (*service.Service, *fsm.ManualClock) {
	clock := fsm.NewManualClock(time.Unix(1700000000, 0))
	svc := service.New(append([]service.Option{
		service.WithClock(clock),
		service.WithSeed(42),
		service.WithWorkerCount(1),
	}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc, clock
}

func TestService_New(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("Then session operations report ErrNotStarted", func() {
			_, err := svc.CreateSession(context.Background(), "spinner", "")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.View(context.Background(), "x")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats().Sessions, ShouldEqual, 0)
		})

		Convey("Then Stop is a no-op", func() {
			svc.Stop()
		})
	})
}

func TestService_Sessions(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc, clock := startService()
		defer svc.Stop()

		Convey("When a spinner session is created", func() {
			view, err := svc.CreateSession(ctx, "spinner", "")
			So(err, ShouldBeNil)
			So(view.ID, ShouldNotBeEmpty)
			So(view.Kind, ShouldEqual, "spinner")
			st := view.State.(types.SpinnerView)
			So(st.Phase, ShouldEqual, "idle")
			So(st.Options, ShouldHaveLength, 4)

			Convey("Then a spin settles after the spin duration and the target can be guessed", func() {
				got, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "a1", Type: model.ActionSpin})
				So(err, ShouldBeNil)
				So(got.State.(types.SpinnerView).Phase, ShouldEqual, "spinning")
				So(got.State.(types.SpinnerView).Target, ShouldBeNil)

				clock.Advance(3 * time.Second)
				cur, err := svc.View(ctx, view.ID)
				So(err, ShouldBeNil)
				sv := cur.State.(types.SpinnerView)
				So(sv.Phase, ShouldEqual, "guessing")
				So(sv.Target, ShouldNotBeNil)

				won, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "a2", Type: model.ActionGuess, Label: sv.Target.Label})
				So(err, ShouldBeNil)
				So(won.State.(types.SpinnerView).Phase, ShouldEqual, "win")
				So(won.State.(types.SpinnerView).Wins, ShouldEqual, 1)
			})

			Convey("Then a repeated action id is applied once", func() {
				_, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "same", Type: model.ActionSpin})
				So(err, ShouldBeNil)
				dup, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "same", Type: model.ActionSpin})
				So(err, ShouldBeNil)
				So(dup.Duplicate, ShouldBeTrue)
				So(dup.State.(types.SpinnerView).Spins, ShouldEqual, 1)

				stats := svc.GetStats()
				So(stats.ActionsApplied, ShouldEqual, 1)
				So(stats.ActionsDuplicate, ShouldEqual, 1)
			})

			Convey("Then a rejected action id may be retried", func() {
				_, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "r", Type: model.ActionGuess, Label: "Good Lunch"})
				So(errors.Is(err, service.ErrInvalidAction), ShouldBeTrue)
				got, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "r", Type: model.ActionSpin})
				So(err, ShouldBeNil)
				So(got.Duplicate, ShouldBeFalse)
				So(svc.GetStats().ActionsRejected, ShouldEqual, 1)
			})

			Convey("Then closing it cancels the session", func() {
				So(svc.CloseSession(ctx, view.ID), ShouldBeNil)
				_, err := svc.View(ctx, view.ID)
				So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)
				So(errors.Is(svc.CloseSession(ctx, view.ID), service.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When a sentence is checked with an empty slot", func() {
			view, err := svc.CreateSession(ctx, "sentence", "")
			So(err, ShouldBeNil)
			_, err = svc.Dispatch(ctx, view.ID, model.Action{Type: model.ActionOpen, ChallengeID: 2})
			So(err, ShouldBeNil)
			_, err = svc.Dispatch(ctx, view.ID, model.Action{Type: model.ActionChoose, Slot: "subject", Word: "He"})
			So(err, ShouldBeNil)

			_, err = svc.Dispatch(ctx, view.ID, model.Action{Type: model.ActionCheck})
			So(errors.Is(err, service.ErrIncompleteSelection), ShouldBeTrue)
		})

		Convey("When a flashcard session asks for an unknown difficulty", func() {
			_, err := svc.CreateSession(ctx, "flashcard", "impossible")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When an unknown kind is requested", func() {
			_, err := svc.CreateSession(ctx, "chess", "")
			So(errors.Is(err, service.ErrUnknownKind), ShouldBeTrue)
		})

		Convey("When the mood poll is disabled", func() {
			So(svc.MoodPollEnabled(), ShouldBeFalse)
			So(svc.Kinds(), ShouldNotContain, "mood")
			_, err := svc.CreateSession(ctx, "mood", "")
			So(errors.Is(err, service.ErrKindDisabled), ShouldBeTrue)
		})

		Convey("When sessions are listed", func() {
			_, err := svc.CreateSession(ctx, "flashcard", "hard")
			So(err, ShouldBeNil)
			list, err := svc.Sessions(ctx)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].Kind, ShouldEqual, "flashcard")
			So(svc.GetStats().SessionsByKind["flashcard"], ShouldEqual, 1)
		})
	})
}

func TestService_Limits(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service holding one session", t, func() {
		svc, clock := startService(
			service.WithMaxSessions(1),
			service.WithIdleEviction(time.Minute, time.Hour),
			service.WithMoodPoll(true),
		)
		defer svc.Stop()

		view, err := svc.CreateSession(ctx, "mood", "")
		So(err, ShouldBeNil)

		Convey("Then a second session is refused", func() {
			_, err := svc.CreateSession(ctx, "spinner", "")
			So(errors.Is(err, service.ErrCapacity), ShouldBeTrue)
		})

		Convey("Then an idle session is evicted by a sweep", func() {
			clock.Advance(30 * time.Second)
			So(svc.Sweep(ctx), ShouldEqual, 0)

			clock.Advance(2 * time.Minute)
			So(svc.Sweep(ctx), ShouldEqual, 1)
			_, err := svc.View(ctx, view.ID)
			So(errors.Is(err, service.ErrSessionNotFound), ShouldBeTrue)

			_, err = svc.CreateSession(ctx, "spinner", "")
			So(err, ShouldBeNil)
		})

		Convey("Then votes expire from the view", func() {
			got, err := svc.Dispatch(ctx, view.ID, model.Action{Type: model.ActionVote, Mood: "happy"})
			So(err, ShouldBeNil)
			So(got.State.(types.MoodView).Votes, ShouldHaveLength, 1)

			clock.Advance(2 * time.Second)
			cur, err := svc.View(ctx, view.ID)
			So(err, ShouldBeNil)
			So(cur.State.(types.MoodView).Votes, ShouldBeEmpty)
			So(cur.State.(types.MoodView).Total, ShouldEqual, 1)
		})
	})
}

func TestService_ConcurrentRetries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sentence session with an open challenge", t, func() {
		svc, _ := startService()
		defer svc.Stop()

		view, err := svc.CreateSession(ctx, "sentence", "")
		So(err, ShouldBeNil)
		_, err = svc.Dispatch(ctx, view.ID, model.Action{Type: model.ActionOpen, ChallengeID: 2})
		So(err, ShouldBeNil)

		Convey("When one rejected action id is retried concurrently", func() {
			var (
				wg         sync.WaitGroup
				mu         sync.Mutex
				duplicates int
				incomplete int
			)
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					got, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "check-1", Type: model.ActionCheck})
					mu.Lock()
					defer mu.Unlock()
					if errors.Is(err, service.ErrIncompleteSelection) {
						incomplete++
					}
					if err == nil && got.Duplicate {
						duplicates++
					}
				}()
			}
			wg.Wait()

			Convey("Then no attempt is reported as a duplicate", func() {
				So(duplicates, ShouldEqual, 0)
				So(incomplete, ShouldEqual, 16)
			})
		})

		Convey("When one accepted action id is retried concurrently", func() {
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				applied int
				dups    int
				stale   int
			)
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					got, err := svc.Dispatch(ctx, view.ID, model.Action{ID: "pick-he", Type: model.ActionChoose, Slot: "subject", Word: "He"})
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						return
					}
					if got.Duplicate {
						dups++
						if got.State.(types.SentenceView).Subject != "He" {
							stale++
						}
						return
					}
					applied++
				}()
			}
			wg.Wait()

			Convey("Then it is applied once and every duplicate already shows it", func() {
				So(applied, ShouldEqual, 1)
				So(dups, ShouldEqual, 15)
				So(stale, ShouldEqual, 0)
			})
		})
	})
}

func TestService_IdleEvictionDisabled(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a zero idle ttl", t, func() {
		svc, clock := startService(service.WithIdleEviction(0, time.Hour))
		defer svc.Stop()

		view, err := svc.CreateSession(ctx, "spinner", "")
		So(err, ShouldBeNil)

		Convey("Then an idle session is never swept", func() {
			clock.Advance(48 * time.Hour)
			So(svc.Sweep(ctx), ShouldEqual, 0)
			_, err := svc.View(ctx, view.ID)
			So(err, ShouldBeNil)
		})
	})
}
