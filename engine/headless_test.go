package engine

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const waitTimeout = 5 * time.Second

func serveBytes(data []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/video.mp4" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	}))
}

// waitFor drains events until match returns true or the timeout elapses.
func waitFor(events <-chan Event, match func(Event) bool) (Event, bool) {
	deadline := time.After(waitTimeout)
	for {
		select {
		case e := <-events:
			if match(e) {
				return e, true
			}
		case <-deadline:
			return nil, false
		}
	}
}

func newTestHeadless(events chan Event) Engine {
	factory := NewHeadless(HeadlessOptions{Tick: 10 * time.Millisecond})
	e, err := factory(func(ev Event) { events <- ev })
	if err != nil {
		panic(err)
	}
	return e
}

func TestHeadless(t *testing.T) {
	Convey("Given a server with a short progressive MP4", t, func() {
		srv := serveBytes(progressiveMP4(300, 2048))
		defer srv.Close()

		events := make(chan Event, 256)
		eng := newTestHeadless(events)
		defer eng.Release()

		So(eng.Duration(), ShouldEqual, -1)
		So(eng.Start(), ShouldNotBeNil)

		So(eng.SetSource(srv.URL+"/video.mp4"), ShouldBeNil)
		So(eng.PrepareAsync(), ShouldBeNil)

		Convey("It should become prepared with the stream dimensions", func() {
			e, ok := waitFor(events, func(e Event) bool { _, ok := e.(Prepared); return ok })
			So(ok, ShouldBeTrue)
			So(e, ShouldResemble, Prepared{Width: 640, Height: 360})
			So(eng.Duration(), ShouldEqual, 300)

			Convey("And buffer the whole stream", func() {
				_, ok := waitFor(events, func(e Event) bool {
					b, ok := e.(BufferingUpdate)
					return ok && b.Percent == 100
				})
				So(ok, ShouldBeTrue)

				Convey("And complete once started", func() {
					So(eng.Start(), ShouldBeNil)
					So(eng.IsPlaying(), ShouldBeTrue)

					_, ok := waitFor(events, func(e Event) bool { _, ok := e.(Completion); return ok })
					So(ok, ShouldBeTrue)
					So(eng.IsPlaying(), ShouldBeFalse)
					So(eng.CurrentPosition(), ShouldEqual, 300)
				})

				Convey("And clamp seeks to the stream bounds", func() {
					So(eng.SeekTo(10000), ShouldBeNil)
					So(eng.CurrentPosition(), ShouldEqual, 300)
					So(eng.SeekTo(-5), ShouldBeNil)
					So(eng.CurrentPosition(), ShouldEqual, 0)
				})
			})
		})
	})

	Convey("Given a missing stream", t, func() {
		srv := serveBytes(nil)
		defer srv.Close()

		events := make(chan Event, 16)
		eng := newTestHeadless(events)
		defer eng.Release()

		So(eng.SetSource(srv.URL+"/missing.mp4"), ShouldBeNil)
		So(eng.PrepareAsync(), ShouldBeNil)

		Convey("It should report an IO error with the HTTP status flag", func() {
			e, ok := waitFor(events, func(e Event) bool { _, ok := e.(Error); return ok })
			So(ok, ShouldBeTrue)
			So(e.(Error).Code, ShouldEqual, CodeIO)
			So(e.(Error).Extra, ShouldEqual, ExtraHTTPStatus)
		})
	})

	Convey("Given a released engine", t, func() {
		events := make(chan Event, 1)
		eng := newTestHeadless(events)
		So(eng.SetSource("http://127.0.0.1:1/video.mp4"), ShouldBeNil)
		So(eng.Release(), ShouldBeNil)

		Convey("PrepareAsync should fail and nothing should be emitted", func() {
			So(eng.PrepareAsync(), ShouldNotBeNil)
			So(len(events), ShouldEqual, 0)
		})
	})
}

func TestToErrorEvent(t *testing.T) {
	Convey("toErrorEvent", t, func() {
		So(toErrorEvent(ErrMoovNotAtHead).Code, ShouldEqual, CodeUnsupported)
		So(toErrorEvent(ErrNotMP4).Code, ShouldEqual, CodeMalformed)
		So(toErrorEvent(errors.New("connection reset")).Code, ShouldEqual, CodeIO)
		So(toErrorEvent(&statusError{code: 503}).Extra, ShouldEqual, ExtraHTTPStatus)
	})
}
