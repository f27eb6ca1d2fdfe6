package util

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/surfplay/surfplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "track", "tracks"), ShouldEqual, "1 track")
		So(Quantify(2, "track", "tracks"), ShouldEqual, "2 tracks")
		So(Quantify(0, "track", "tracks"), ShouldEqual, "0 tracks")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history file"), ShouldEqual, "History file")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestIgnore(t *testing.T) {
	Convey("Ignore should call the function", t, func() {
		called := false
		Ignore(func() error {
			called = true
			return errors.New("ignored")
		})
		So(called, ShouldBeTrue)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given files on the filesystem", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/surfplay/sockets", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/surfplay/sockets/mpv.sock", []byte{}, 0o644), ShouldBeNil)
		So(fs.WriteFile("/tmp/surfplay/history.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("A file should be removed", func() {
			So(Delete("/tmp/surfplay/history.json"), ShouldBeNil)
			exists, _ := fs.Exists("/tmp/surfplay/history.json")
			So(exists, ShouldBeFalse)
		})

		Convey("A directory should be removed with its contents", func() {
			So(Delete("/tmp/surfplay/sockets"), ShouldBeNil)
			exists, _ := fs.Exists("/tmp/surfplay/sockets/mpv.sock")
			So(exists, ShouldBeFalse)
		})

		Convey("A missing path should fail", func() {
			So(Delete("/tmp/surfplay/missing"), ShouldNotBeNil)
		})
	})
}
