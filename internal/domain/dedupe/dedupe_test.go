package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/classplay/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		So(d.Size(), ShouldEqual, 0)

		Convey("When an id is recorded twice", func() {
			So(d.SeenAndRecord(ctx, "s1/a1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "s1/a1"), ShouldBeTrue)

			Convey("Then it is stored once", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the ring overflows", func() {
			for _, id := range []string{"a", "b", "c", "d"} {
				So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
			}

			Convey("Then the oldest id is forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "x")
			d.Unrecord(ctx, "x")
			d.Unrecord(ctx, "never-seen")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "x"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 100; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
		}
		So(d.Size(), ShouldEqual, 100)
		d.Unrecord(ctx, "id-5")
		So(d.Size(), ShouldEqual, 99)
	})

	Convey("Given concurrent writers of the same id", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !d.SeenAndRecord(ctx, "same") {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		So(fresh, ShouldEqual, 1)
	})
}
