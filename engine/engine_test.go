package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValidateLocator(t *testing.T) {
	Convey("ValidateLocator", t, func() {
		Convey("Should accept http and https streams", func() {
			l, err := ValidateLocator("  http://x/video.mp4 ")
			So(err, ShouldBeNil)
			So(l, ShouldEqual, "http://x/video.mp4")

			_, err = ValidateLocator("https://cdn.example.com/a.mp4?token=1")
			So(err, ShouldBeNil)
		})

		Convey("Should reject empty and flag-like values", func() {
			_, err := ValidateLocator("")
			So(err, ShouldNotBeNil)

			_, err = ValidateLocator("--script=evil.lua")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject control characters", func() {
			_, err := ValidateLocator("http://x/a\n.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject local and unsupported schemes", func() {
			for _, l := range []string{"/home/me/video.mp4", "file:///tmp/a.mp4", "rtmp://x/live"} {
				_, err := ValidateLocator(l)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Should reject URLs without a host", func() {
			_, err := ValidateLocator("http:///video.mp4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Engine registry", t, func() {
		So(Backends(), ShouldResemble, []string{BackendHeadless, BackendMPV})

		Convey("Should build known backends", func() {
			f, err := New(BackendHeadless)
			So(err, ShouldBeNil)
			So(f, ShouldNotBeNil)
		})

		Convey("Should reject unknown backends", func() {
			_, err := New("vlc")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "vlc")
		})
	})
}
