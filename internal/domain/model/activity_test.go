package model_test

import (
	"testing"
	"time"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestActivity(t *testing.T) {
	convey.Convey("Given an activity with two participants", t, func() {
		a := model.Activity{
			Name:            "Chess Club",
			MaxParticipants: 2,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		}

		convey.Convey("Then membership and capacity are derived from the roster", func() {
			convey.So(a.Has("michael@mergington.edu"), convey.ShouldBeTrue)
			convey.So(a.Has("emma@mergington.edu"), convey.ShouldBeFalse)
			convey.So(a.SpotsLeft(), convey.ShouldEqual, 0)
			convey.So(a.Full(), convey.ShouldBeTrue)
		})

		convey.Convey("When cloning it", func() {
			c := a.Clone()
			c.Participants[0] = "changed@mergington.edu"

			convey.Convey("Then the original roster is untouched", func() {
				convey.So(a.Participants[0], convey.ShouldEqual, "michael@mergington.edu")
			})
		})

		convey.Convey("When cloning an activity without participants", func() {
			c := model.Activity{Name: "Empty"}.Clone()

			convey.Convey("Then the roster is an empty, non-nil slice", func() {
				convey.So(c.Participants, convey.ShouldNotBeNil)
				convey.So(c.Participants, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the roster overflows", func() {
			a.Participants = append(a.Participants, "extra@mergington.edu")

			convey.Convey("Then spots left goes negative", func() {
				convey.So(a.SpotsLeft(), convey.ShouldEqual, -1)
			})
		})
	})
}

func TestSession_Expired(t *testing.T) {
	convey.Convey("Given sessions with and without a deadline", t, func() {
		now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
		forever := model.Session{Token: "t1", Username: "mrodriguez", CreatedAt: now}
		short := model.Session{Token: "t2", Username: "mrodriguez", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}

		convey.So(forever.Expired(now.Add(24*time.Hour)), convey.ShouldBeFalse)
		convey.So(short.Expired(now), convey.ShouldBeFalse)
		convey.So(short.Expired(now.Add(time.Minute)), convey.ShouldBeTrue)
	})
}
