package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/history"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.Flags().StringP("remove", "r", "", "Remove the entry of a stream")
	lo.Must0(historyCmd.RegisterFlagCompletionFunc("remove", completionHistoryLocators))

	historyCmd.SetOut(os.Stdout)
}

func completionHistoryLocators(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, err := history.Find(toComplete)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(entries, func(e *history.Entry, _ int) string {
		return e.Locator
	}), cobra.ShellCompDirectiveNoFileComp
}

// historyCmd lists saved resume positions, optionally filtered by a fuzzy query.
var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List saved resume positions",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if remove := lo.Must(cmd.Flags().GetString("remove")); remove != "" {
			handleErr(history.Remove(remove))
			cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), remove)
			return
		}

		entries, err := history.Find(strings.Join(args, " "))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			handleErr(encoder.Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No history"))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s\n", style.Fg(color.Purple)(icon.Get(icon.Resume)), e)
			cmd.Println(style.Faint("  " + e.Watched.Format("2006-01-02 15:04")))
		}
	},
}

func init() {
	historyCmd.AddCommand(historySchemaCmd)
	historySchemaCmd.Flags().BoolP("entry", "e", false, "Print the schema of a history entry instead")
	historySchemaCmd.SetOut(os.Stdout)
}

// historySchemaCmd prints the JSON Schema of the play --json stream.
var historySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the snapshots written by play --json",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var target any = &controller.Snapshot{}
		if lo.Must(cmd.Flags().GetBool("entry")) {
			target = &history.Entry{}
		}

		schema := (&jsonschema.Reflector{DoNotReference: true}).Reflect(target)

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
