package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/config"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/history"
	"github.com/surfplay/surfplay/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestClosest(t *testing.T) {
	Convey("Given a misspelled value", t, func() {
		Convey("The closest candidate should be suggested", func() {
			So(closest("headles", engine.Backends()), ShouldEqual, engine.BackendHeadless)
			So(closest("mvp", engine.Backends()), ShouldEqual, engine.BackendMPV)
		})

		Convey("The error should name the suggestion", func() {
			err := errUnknown("engine", "headles", engine.Backends())
			So(err.Error(), ShouldContainSubstring, "headless")
		})
	})
}

func TestParseValue(t *testing.T) {
	Convey("Given raw command-line values", t, func() {
		Convey("They should take the type of the default", func() {
			v, err := parseValue(config.Default[key.PlayerSeekStep], []string{"5000"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 5000)

			v, err = parseValue(config.Default[key.PlayerResume], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = parseValue(config.Default[key.PlayerEngine], []string{"headless"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "headless")
		})

		Convey("Malformed numbers should be rejected", func() {
			_, err := parseValue(config.Default[key.HeadlessTick], []string{"fast"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestJoinNames(t *testing.T) {
	Convey("Clear targets are joined for the confirmation prompt", t, func() {
		So(joinNames(clearTargets[:1]), ShouldEqual, "cache directory")
		So(joinNames(clearTargets), ShouldEqual, "cache directory, history file and temp directory")
	})
}

func TestSaveProgress(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(history.Clear(), ShouldBeNil)

		Convey("A stream that never got a duration should not be saved", func() {
			So(saveProgress("http://a/v.mp4", controller.Snapshot{Duration: -1}), ShouldBeNil)

			saved, err := history.Get()
			So(err, ShouldBeNil)
			So(saved, ShouldBeEmpty)
		})

		Convey("The reached position should be saved", func() {
			So(saveProgress("http://a/v.mp4", controller.Snapshot{State: controller.Paused, Position: 1500, Duration: 6000}), ShouldBeNil)

			saved, err := history.Get()
			So(err, ShouldBeNil)
			So(saved["http://a/v.mp4"].Position, ShouldEqual, 1500)
			So(saved["http://a/v.mp4"].Duration, ShouldEqual, 6000)
		})

		Convey("A completed stream should be saved at its end", func() {
			So(saveProgress("http://a/v.mp4", controller.Snapshot{State: controller.Completed, Position: 5800, Duration: 6000}), ShouldBeNil)

			saved, err := history.Get()
			So(err, ShouldBeNil)
			So(saved["http://a/v.mp4"].Position, ShouldEqual, 6000)
		})
	})
}

func TestStateLogger(t *testing.T) {
	Convey("Given a state logger", t, func() {
		var out bytes.Buffer
		logState := stateLogger(&out)

		Convey("It should print one line per transition", func() {
			logState(controller.Snapshot{State: controller.Preparing, Duration: -1})
			logState(controller.Snapshot{State: controller.Preparing, Duration: -1, Buffer: 10})
			logState(controller.Snapshot{State: controller.Playing, Position: 1000, Duration: 60000})

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[0], ShouldContainSubstring, "preparing")
			So(lines[1], ShouldContainSubstring, "playing")
			So(lines[1], ShouldContainSubstring, "1s of 1m0s")
		})
	})
}

func TestPrintInfo(t *testing.T) {
	Convey("Given probed metadata", t, func() {
		var out bytes.Buffer
		printInfo(&out, &engine.Info{
			Duration: 90000,
			Width:    640,
			Height:   360,
			HeadSize: 2048,
			Tracks: []engine.Track{
				{ID: 1, Handler: "vide", Timescale: 1000, Width: 640, Height: 360},
				{ID: 2, Handler: "soun", Timescale: 48000},
			},
		})

		Convey("It should print the summary and every track", func() {
			text := out.String()
			So(text, ShouldContainSubstring, "1m30s")
			So(text, ShouldContainSubstring, "640x360")
			So(text, ShouldContainSubstring, "2 tracks")
			So(text, ShouldContainSubstring, "#2 soun")
		})

		Convey("An unknown duration should be printed as such", func() {
			out.Reset()
			printInfo(&out, &engine.Info{Duration: -1})
			So(out.String(), ShouldContainSubstring, "unknown")
		})
	})
}

func TestEnvVars(t *testing.T) {
	Convey("Given an environment with one override", t, func() {
		env := map[string]string{"SURFPLAY_PLAYER_ENGINE": "headless"}
		vars := envVars(func(name string) string { return env[name] })

		Convey("Every setting and the config path should be listed in order", func() {
			So(vars, ShouldHaveLength, len(config.EnvExposed)+1)
			for i := 1; i < len(vars); i++ {
				So(vars[i-1].Name, ShouldBeLessThan, vars[i].Name)
			}
		})

		Convey("The override should carry its value and setting", func() {
			v, ok := lo.Find(vars, func(v envVar) bool { return v.Name == "SURFPLAY_PLAYER_ENGINE" })
			So(ok, ShouldBeTrue)
			So(v.Value, ShouldEqual, "headless")
			So(v.Setting, ShouldEqual, key.PlayerEngine)
		})

		Convey("Repeated calls should not grow the list", func() {
			So(envVars(func(string) string { return "" }), ShouldHaveLength, len(vars))
		})
	})
}

func TestCurrentBuild(t *testing.T) {
	Convey("Build info should report the configured engine", t, func() {
		viper.Set(key.PlayerEngine, engine.BackendHeadless)
		defer viper.Set(key.PlayerEngine, engine.BackendMPV)

		info := currentBuild()
		So(info.Version, ShouldEqual, constant.Version)
		So(info.Engine, ShouldEqual, engine.BackendHeadless)
		So(info.Platform, ShouldContainSubstring, "/")
	})
}

func TestUntilCompleted(t *testing.T) {
	Convey("Given a listener waiting for completion", t, func() {
		var reported []controller.Snapshot
		completed := make(chan controller.Snapshot, 1)
		listen := untilCompleted(func(s controller.Snapshot) { reported = append(reported, s) }, completed)

		listen(controller.Snapshot{State: controller.Playing, Position: 5800, Duration: 6000})
		So(completed, ShouldBeEmpty)

		Convey("The completed snapshot should be handed over as published", func() {
			listen(controller.Snapshot{State: controller.Completed, Position: 6000, Duration: 6000})
			listen(controller.Snapshot{State: controller.Completed, Position: 0, Duration: 6000})

			So(reported, ShouldHaveLength, 3)
			last := <-completed
			So(last.State, ShouldEqual, controller.Completed)
			So(last.Position, ShouldEqual, 6000)
			So(completed, ShouldBeEmpty)
		})
	})
}
