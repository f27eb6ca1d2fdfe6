package cmd

import (
	"encoding/json"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/config"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are unset")
	envCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envVar is an environment variable the application reads and the setting it overrides.
type envVar struct {
	Name    string `json:"name"`
	Setting string `json:"setting,omitempty"`
	Value   string `json:"value,omitempty"`
}

// envVars lists every supported variable sorted by name, read from lookup.
func envVars(lookup func(string) string) []envVar {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) envVar {
		field := config.Default[k]
		name := field.Env()
		return envVar{Name: name, Setting: k, Value: lookup(name)}
	})
	vars = append(vars, envVar{Name: where.EnvConfigPath, Value: lookup(where.EnvConfigPath)})

	names := lo.Map(vars, func(v envVar, _ int) string { return v.Name })
	slices.Sort(names)
	byName := lo.KeyBy(vars, func(v envVar) string { return v.Name })

	return lo.Map(names, func(name string, _ int) envVar { return byName[name] })
}

// envCmd shows the environment variables that override settings.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		vars := lo.Filter(envVars(os.Getenv), func(v envVar, _ int) bool {
			switch {
			case setOnly:
				return v.Value != ""
			case unsetOnly:
				return v.Value == ""
			default:
				return true
			}
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(vars))
			return
		}

		name := style.New().Bold(true).Foreground(color.Purple).Render
		for _, v := range vars {
			value := style.Fg(color.Red)("unset")
			if v.Value != "" {
				value = style.Fg(color.Green)(v.Value)
			}

			cmd.Printf("%s=%s", name(v.Name), value)
			if v.Setting != "" {
				cmd.Print(style.Faint("  # " + v.Setting))
			}
			cmd.Println()
		}
	},
}
