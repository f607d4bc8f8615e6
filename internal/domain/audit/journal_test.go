package audit

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/mergington/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func event(i int) model.RosterEvent {
	return model.RosterEvent{ID: fmt.Sprintf("ev-%d", i), Kind: model.EventSignup, Teacher: "mchen"}
}

func TestJournal(t *testing.T) {
	Convey("Given a journal with capacity 3", t, func() {
		ctx := context.Background()
		j := NewJournal(WithCapacity(3))

		Convey("When it is empty", func() {
			Convey("Then Recent returns an empty slice", func() {
				So(j.Recent(ctx, 10), ShouldBeEmpty)
				So(j.Len(), ShouldEqual, 0)
				So(j.Capacity(), ShouldEqual, 3)
			})
		})

		Convey("When two events are recorded", func() {
			So(j.Record(ctx, event(1)), ShouldBeNil)
			So(j.Record(ctx, event(2)), ShouldBeNil)

			Convey("Then they come back newest first", func() {
				got := j.Recent(ctx, 10)
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, "ev-2")
				So(got[1].ID, ShouldEqual, "ev-1")
			})

			Convey("And the limit is honoured", func() {
				got := j.Recent(ctx, 1)
				So(len(got), ShouldEqual, 1)
				So(got[0].ID, ShouldEqual, "ev-2")
			})

			Convey("And a non-positive limit returns nothing", func() {
				So(j.Recent(ctx, 0), ShouldBeEmpty)
				So(j.Recent(ctx, -5), ShouldBeEmpty)
			})
		})

		Convey("When more events than the capacity are recorded", func() {
			for i := 1; i <= 5; i++ {
				So(j.Record(ctx, event(i)), ShouldBeNil)
			}

			Convey("Then only the newest three survive", func() {
				got := j.Recent(ctx, 10)
				So(j.Len(), ShouldEqual, 3)
				So(len(got), ShouldEqual, 3)
				So(got[0].ID, ShouldEqual, "ev-5")
				So(got[1].ID, ShouldEqual, "ev-4")
				So(got[2].ID, ShouldEqual, "ev-3")
			})
		})
	})
}

func TestJournal_Concurrent(t *testing.T) {
	Convey("Given a journal written from many goroutines", t, func() {
		ctx := context.Background()
		j := NewJournal(WithCapacity(50))

		var wg sync.WaitGroup
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 20; i++ {
					_ = j.Record(ctx, event(g*100+i))
					_ = j.Recent(ctx, 5)
				}
			}(g)
		}
		wg.Wait()

		Convey("Then it stays bounded", func() {
			So(j.Len(), ShouldEqual, 50)
			So(len(j.Recent(ctx, 100)), ShouldEqual, 50)
		})
	})
}
