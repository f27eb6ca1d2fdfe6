package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/where"
)

// whereTarget is a location the application writes to.
type whereTarget struct {
	name     string
	about    string
	location func() string
	argLong  string
	argShort mo.Option[string]
	hidden   bool
}

var whereTargets = []whereTarget{
	{"Config", "settings file", where.Config, "config", mo.Some("c"), false},
	{"Logs", "dated log files", where.Logs, "logs", mo.Some("l"), false},
	{"History", "saved resume positions", where.History, "history", mo.Some("s"), false},
	{"Cache", "release lookups", where.Cache, "cache", mo.None[string](), true},
	{"Temp", "mpv IPC sockets", where.Temp, "temp", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		help := t.name + " path"
		if short, ok := t.argShort.Get(); ok {
			whereCmd.Flags().BoolP(t.argLong, short, false, help)
		} else {
			whereCmd.Flags().Bool(t.argLong, false, help)
		}

		if t.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(t.argLong))
		}
	}

	whereCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.argLong
	})...)

	whereCmd.SetOut(os.Stdout)
}

// whereCmd prints where the application keeps its files.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where files are kept",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range whereTargets {
			if lo.Must(cmd.Flags().GetBool(t.argLong)) {
				cmd.Println(t.location())
				return
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(whereTargets, func(t whereTarget) (string, string) {
				return t.argLong, t.location()
			})
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(paths))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(whereTargets, func(t whereTarget, _ int) bool { return t.hidden })

		for i, t := range visible {
			cmd.Printf("%s %s %s\n", header(t.name), style.Fg(color.Yellow)("--"+t.argLong), style.Faint(t.about))
			cmd.Println(t.location())

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
