package controller

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRelease(t *testing.T) {
	Convey("Given an engine", t, func() {
		eng := &fakeEngine{}

		Convey("Release without stop should only release", func() {
			So(release(job{engine: eng}), ShouldBeNil)
			So(eng.Calls(), ShouldResemble, []string{"Release"})
		})

		Convey("Release with stop should stop first", func() {
			So(release(job{engine: eng, stop: true}), ShouldBeNil)
			So(eng.Calls(), ShouldResemble, []string{"Stop", "Release"})
		})

		Convey("A panicking stop should be reported and release should still run", func() {
			eng.panicOn = "Stop"
			err := release(job{engine: eng, stop: true})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "stop panicked")
			So(eng.released(), ShouldBeTrue)
		})

		Convey("A failing release should be wrapped", func() {
			cause := errors.New("busy")
			eng.releaseErr = cause
			err := release(job{engine: eng})
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})
}

func TestReleaser(t *testing.T) {
	Convey("Given a running releaser", t, func() {
		r := newReleaser()
		go r.run()
		defer r.close()

		Convey("Each job should report one completion", func() {
			first, second := &fakeEngine{}, &fakeEngine{releaseErr: errors.New("busy")}

			r.submit(job{engine: first, gen: 1})
			So(waitDone(r), ShouldBeNil)

			r.submit(job{engine: second, gen: 2})
			So(waitDone(r), ShouldNotBeNil)

			So(first.released(), ShouldBeTrue)
			So(second.released(), ShouldBeTrue)
		})
	})
}

func waitDone(r *releaser) error {
	select {
	case err := <-r.done:
		return err
	case <-time.After(time.Second):
		return errors.New("no completion")
	}
}
