package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/history"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/log"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/surface"
	"github.com/surfplay/surfplay/tui"
	"github.com/surfplay/surfplay/util"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("engine", "e", "", "Playback engine to drive (mpv, headless)")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return engine.Backends(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerEngine, playCmd.Flags().Lookup("engine")))

	playCmd.Flags().BoolP("continue", "c", true, "Resume from the position saved in the history")
	lo.Must0(viper.BindPFlag(key.PlayerResume, playCmd.Flags().Lookup("continue")))

	playCmd.Flags().BoolP("write-history", "H", true, "Save the reached position to the history on exit")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnExit, playCmd.Flags().Lookup("write-history")))

	playCmd.Flags().BoolP("json", "j", false, "Print every state change as a JSON line instead of the TUI")
	playCmd.Flags().BoolP("no-tui", "n", false, "Play without the TUI until the stream ends or is interrupted")

	playCmd.SetOut(os.Stdout)
}

// playCmd plays a stream through the configured engine.
var playCmd = &cobra.Command{
	Use:     "play <url>",
	Short:   "Play a progressive HTTP video stream",
	Args:    cobra.ExactArgs(1),
	Example: "  surfplay play https://example.com/video.mp4 --engine headless --json",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			locator = args[0]
			asJson  = lo.Must(cmd.Flags().GetBool("json"))
			noTUI   = lo.Must(cmd.Flags().GetBool("no-tui"))
		)

		name := viper.GetString(key.PlayerEngine)
		if !lo.Contains(engine.Backends(), name) {
			handleErr(errUnknown("engine", name, engine.Backends()))
		}

		if name == engine.BackendMPV {
			CheckDependencies()

			// sockets left behind by players that did not exit cleanly
			if n, err := engine.SweepSockets(); err != nil {
				log.Warnf("sweeping sockets: %v", err)
			} else if n > 0 {
				log.Debugf("swept %d stale sockets", n)
			}
		}

		factory, err := engine.New(name)
		handleErr(err)

		resume := mo.None[int]()
		if viper.GetBool(key.PlayerResume) {
			resume, err = history.Resume(locator)
			if err != nil {
				log.Warnf("reading history: %v", err)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var last controller.Snapshot
		if asJson || noTUI {
			last, err = watch(ctx, factory, locator, resume, cmd.OutOrStdout(), asJson)
		} else {
			last, err = tui.Run(ctx, &tui.Options{
				Factory:  factory,
				Locator:  locator,
				Resume:   resume,
				SeekStep: time.Duration(viper.GetInt(key.PlayerSeekStep)) * time.Millisecond,
			})
		}

		if viper.GetBool(key.HistorySaveOnExit) {
			if saveErr := saveProgress(locator, last); saveErr != nil {
				log.Warnf("saving history: %v", saveErr)
			}
		}

		handleErr(err)
	},
}

// saveProgress records the position of the last snapshot. Streams that were never
// prepared have no duration and are not recorded.
func saveProgress(locator string, last controller.Snapshot) error {
	if last.Duration <= 0 {
		return nil
	}

	position := last.Position
	if last.State == controller.Completed {
		position = last.Duration
	}

	return history.Save(locator, position, last.Duration)
}

// watch plays locator without a TUI. It returns when the stream completes, an error is
// reported or ctx is done.
func watch(
	ctx context.Context,
	factory engine.Factory,
	locator string,
	resume mo.Option[int],
	out io.Writer,
	asJson bool,
) (controller.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := controller.New(factory, surface.Discard)
	binding := surface.NewBinding(c)

	var (
		completed = make(chan controller.Snapshot, 1)
		failed    = make(chan error, 1)
	)

	c.OnError(func(err *controller.PlaybackError) bool {
		select {
		case failed <- err:
		default:
		}
		return true
	})

	report := stateLogger(out)
	if asJson {
		encoder := json.NewEncoder(out)
		report = func(s controller.Snapshot) {
			if err := encoder.Encode(s); err != nil {
				log.Warnf("encoding snapshot: %v", err)
			}
		}
	}
	c.OnStateChange(untilCompleted(report, completed))

	c.SetSource(locator)
	if ms, ok := resume.Get(); ok {
		c.SeekTo(ms)
	}

	width, height, err := util.TerminalSize()
	if err != nil {
		width, height = 80, 24
	}
	binding.Changed(0, width, height)
	binding.Created()

	stopped := make(chan error, 1)
	go func() {
		stopped <- c.Run(ctx)
	}()

	var (
		last    controller.Snapshot
		failure error
	)
	select {
	case <-ctx.Done():
		last = c.Snapshot()
	case last = <-completed:
	case failure = <-failed:
		last = c.Snapshot()
	}
	cancel()

	return last, errors.Join(failure, <-stopped)
}

// untilCompleted passes every snapshot to report and hands the first completed
// one to completed. Snapshots reach state listeners only once published, so the
// completed one already carries its final position.
func untilCompleted(report func(controller.Snapshot), completed chan<- controller.Snapshot) func(controller.Snapshot) {
	return func(s controller.Snapshot) {
		report(s)
		if s.State != controller.Completed {
			return
		}

		select {
		case completed <- s:
		default:
		}
	}
}

// stateLogger prints one line per state transition.
func stateLogger(out io.Writer) func(controller.Snapshot) {
	var previous mo.Option[controller.State]

	return func(s controller.Snapshot) {
		if p, ok := previous.Get(); ok && p == s.State {
			return
		}
		previous = mo.Some(s.State)

		line := fmt.Sprintf("%s %s", stateIcon(s.State), style.Fg(color.Purple)(s.State.String()))
		if s.Duration > 0 {
			line += style.Faint(fmt.Sprintf(" at %s of %s",
				time.Duration(s.Position)*time.Millisecond,
				time.Duration(s.Duration)*time.Millisecond,
			))
		}
		_, _ = fmt.Fprintln(out, line)
	}
}

func stateIcon(s controller.State) string {
	switch s {
	case controller.Playing:
		return icon.Get(icon.Play)
	case controller.Paused:
		return icon.Get(icon.Pause)
	case controller.Stopped, controller.Completed:
		return icon.Get(icon.Stop)
	case controller.Preparing, controller.Prepared:
		return icon.Get(icon.Buffer)
	case controller.Error:
		return icon.Get(icon.Fail)
	default:
		return icon.Get(icon.Progress)
	}
}
