package engine

import (
	"net"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/where"
)

func TestSockets(t *testing.T) {
	Convey("Given the sockets directory on the in-memory backend", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		dir, err := where.Sockets()
		So(err, ShouldBeNil)

		Convey("New socket paths should be unique and inside it", func() {
			a, err := newSocketPath()
			So(err, ShouldBeNil)
			b, err := newSocketPath()
			So(err, ShouldBeNil)

			So(filepath.Dir(a), ShouldEqual, dir)
			So(filepath.Base(a), ShouldStartWith, socketPrefix)
			So(filepath.Base(a), ShouldEndWith, socketSuffix)
			So(a, ShouldNotEqual, b)
		})

		Convey("Sockets nobody listens on should be swept", func() {
			fs := filesystem.API()
			So(fs.WriteFile(filepath.Join(dir, "mpv-0badc0de.sock"), nil, 0o600), ShouldBeNil)
			So(fs.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600), ShouldBeNil)

			removed, err := SweepSockets()
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 1)

			exists, _ := fs.Exists(filepath.Join(dir, "mpv-0badc0de.sock"))
			So(exists, ShouldBeFalse)
			exists, _ = fs.Exists(filepath.Join(dir, "notes.txt"))
			So(exists, ShouldBeTrue)
		})
	})

	Convey("A socket with a listener should be alive", t, func() {
		path := filepath.Join(t.TempDir(), "mpv-live.sock")
		listener, err := net.Listen("unix", path)
		So(err, ShouldBeNil)
		defer listener.Close()

		So(alive(path), ShouldBeTrue)
		So(alive(path+".gone"), ShouldBeFalse)
	})
}
