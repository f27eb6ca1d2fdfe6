package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)
		viper.Set(key.PlayerResumeThreshold, 95)

		entries, err := Sorted()
		So(err, ShouldBeNil)
		So(entries, ShouldBeEmpty)

		Convey("When saving a position", func() {
			So(Save("http://x/video.mp4", 30000, 60000), ShouldBeNil)

			Convey("Then it should be saved", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved["http://x/video.mp4"].Position, ShouldEqual, 30000)
				So(saved["http://x/video.mp4"].Percent(), ShouldEqual, 50)
			})

			Convey("And resume should return it", func() {
				pos, err := Resume("http://x/video.mp4")
				So(err, ShouldBeNil)
				So(pos.MustGet(), ShouldEqual, 30000)
			})

			Convey("And a zero position should not overwrite it", func() {
				So(Save("http://x/video.mp4", 0, 60000), ShouldBeNil)
				pos, _ := Resume("http://x/video.mp4")
				So(pos.MustGet(), ShouldEqual, 30000)
			})

			Convey("And a finished stream should start over", func() {
				So(Save("http://x/video.mp4", 59000, 60000), ShouldBeNil)
				pos, err := Resume("http://x/video.mp4")
				So(err, ShouldBeNil)
				So(pos.IsAbsent(), ShouldBeTrue)
			})

			Convey("And removing it should forget it", func() {
				So(Remove("http://x/video.mp4"), ShouldBeNil)
				pos, err := Resume("http://x/video.mp4")
				So(err, ShouldBeNil)
				So(pos.IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Unknown streams should not resume", func() {
			pos, err := Resume("http://x/other.mp4")
			So(err, ShouldBeNil)
			So(pos.IsAbsent(), ShouldBeTrue)
		})

		Convey("Given several streams", func() {
			So(Save("http://cdn.example.com/big_buck_bunny.mp4", 1000, -1), ShouldBeNil)
			So(Save("http://cdn.example.com/sintel.mp4", 2000, 10000), ShouldBeNil)
			So(Save("http://other.org/tears_of_steel.mp4", 3000, 10000), ShouldBeNil)

			Convey("Find should match fuzzily", func() {
				found, err := Find("sintel")
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 1)
				So(found[0].Position, ShouldEqual, 2000)

				found, err = Find("cdn")
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 2)
			})

			Convey("An empty query should list everything", func() {
				found, err := Find("")
				So(err, ShouldBeNil)
				So(len(found), ShouldEqual, 3)
			})
		})
	})
}

func TestEntry(t *testing.T) {
	Convey("Entry", t, func() {
		e := &Entry{Locator: "http://x/a.mp4", Position: 90000, Duration: -1}
		So(e.Percent(), ShouldEqual, -1)
		So(e.Finished(95), ShouldBeFalse)
		So(e.String(), ShouldEqual, "http://x/a.mp4 at 1m30s")

		e.Duration = 90000
		So(e.Finished(95), ShouldBeTrue)
		So(e.String(), ShouldEqual, "http://x/a.mp4 at 1m30s (100%)")
	})
}
