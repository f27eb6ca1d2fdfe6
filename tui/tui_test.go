package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/engine"
)

func nopFactory(func(engine.Event)) (engine.Engine, error) {
	return nil, nil
}

func TestFormatMillis(t *testing.T) {
	Convey("formatMillis", t, func() {
		So(formatMillis(-1), ShouldEqual, "--:--")
		So(formatMillis(0), ShouldEqual, "0:00")
		So(formatMillis(75_000), ShouldEqual, "1:15")
		So(formatMillis(3_725_000), ShouldEqual, "1:02:05")
	})
}

func TestOffer(t *testing.T) {
	Convey("offer should keep only the latest value", t, func() {
		ch := make(chan int, 1)
		offer(ch, 1)
		offer(ch, 2)
		So(<-ch, ShouldEqual, 2)
	})
}

func TestBubble(t *testing.T) {
	Convey("Given a player view", t, func() {
		b := newBubble(&Options{Factory: nopFactory, Locator: "http://x/video.mp4", SeekStep: 10 * time.Second})

		Convey("Seeking should be clamped to the stream", func() {
			b.snapshot = controller.Snapshot{Position: 5000, Duration: 12000, PendingSeek: -1}
			So(b.seekTarget(-b.seekStep), ShouldEqual, 0)
			So(b.seekTarget(b.seekStep), ShouldEqual, 12000)

			Convey("And continue from a pending seek", func() {
				b.snapshot.PendingSeek = 1000
				So(b.seekTarget(b.seekStep), ShouldEqual, 11000)
			})
		})

		Convey("A window size should create the surface", func() {
			b.Update(tea.WindowSizeMsg{Width: 84, Height: 40})
			So(b.binding.Alive(), ShouldBeTrue)
			So(b.width, ShouldEqual, 80)
			So(b.binding.Container().Height, ShouldEqual, 38-statusLines)

			Convey("And suspending should destroy it", func() {
				_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
				So(cmd, ShouldNotBeNil)
				So(b.binding.Alive(), ShouldBeFalse)

				b.Update(tea.ResumeMsg{})
				So(b.binding.Alive(), ShouldBeTrue)
			})
		})

		Convey("A playback error should switch to the error view", func() {
			b.Update(&controller.PlaybackError{Kind: controller.EngineError, Code: engine.CodeIO})
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "Error")

			Convey("And reload should go back to the player", func() {
				b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
				So(b.state, ShouldEqual, playerState)
				So(b.lastError, ShouldBeNil)
			})
		})

		Convey("Snapshots should be shown", func() {
			b.Update(controller.Snapshot{State: controller.Playing, Position: 61_000, Duration: 120_000, Buffer: 40, PendingSeek: -1})
			So(b.View(), ShouldContainSubstring, "1:01 / 2:00")
			So(b.View(), ShouldContainSubstring, "playing")
		})
	})
}
