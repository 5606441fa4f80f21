package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/classplay/internal/adapters/mq/queue"
	"github.com/okian/classplay/internal/adapters/mq/worker"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/types"
	logging "github.com/okian/classplay/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []types.Celebration
	fail error
}

func (s *recordingSink) Deliver(_ context.Context, c types.Celebration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.got = append(s.got, c)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func burst(session string) types.Celebration {
	return types.Celebration{SessionID: session, Burst: fsm.Burst{Event: "flashcard.reveal", ParticleCount: 80}}
}

func TestInMemoryWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a worker whose first sink fails", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		failing := &recordingSink{fail: errors.New("gone")}
		sink := &recordingSink{}
		w := worker.NewInMemoryWorker(q, []worker.Sink{failing, sink}, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			w.Run(ctx)
		}()

		convey.Convey("When celebrations are queued", func() {
			convey.So(q.Enqueue(ctx, burst("s1")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, burst("s2")), convey.ShouldBeNil)

			convey.Convey("Then the other sink receives them in order", func() {
				convey.So(waitFor(func() bool { return sink.count() == 2 }), convey.ShouldBeTrue)
				convey.So(sink.got[0].SessionID, convey.ShouldEqual, "s1")
				convey.So(failing.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cancel()

			convey.Convey("Then Run returns", func() {
				convey.So(waitFor(func() bool {
					select {
					case <-done:
						return true
					default:
						return false
					}
				}), convey.ShouldBeTrue)
			})
		})

		convey.Reset(func() {
			cancel()
			<-done
		})
	})
}

func TestPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a pool of three workers", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		sink := &recordingSink{}
		p := worker.NewPool(3, q, sink, worker.SinkFunc(func(context.Context, types.Celebration) error { return nil }))
		convey.So(p.Size(), convey.ShouldEqual, 3)

		ctx := context.Background()
		p.Start(ctx)
		for i := 0; i < 20; i++ {
			convey.So(q.Enqueue(ctx, burst("s")), convey.ShouldBeNil)
		}

		convey.Convey("When the pool shuts down", func() {
			convey.So(p.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then the queue is drained and closed", func() {
				convey.So(sink.count(), convey.ShouldEqual, 20)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with a non-positive size", t, func() {
		_ = logging.Init()
		p := worker.NewPool(0, queue.NewInMemoryQueue())
		convey.So(p.Size(), convey.ShouldEqual, 1)
		convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)
	})
}
