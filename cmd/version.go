package cmd

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version")
	versionCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
	versionCmd.SetOut(os.Stdout)
}

// buildInfo describes the running binary.
type buildInfo struct {
	App      string `json:"app"`
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"built_at"`
	BuiltBy  string `json:"built_by"`
	Platform string `json:"platform"`
	Engine   string `json:"engine"`
}

func currentBuild() buildInfo {
	return buildInfo{
		App:      constant.Surfplay,
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Engine:   viper.GetString(key.PlayerEngine),
	}
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"purple": style.Fg(color.Purple),
}).Parse(`{{ purple "▇▇▇" }} {{ purple .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built at" }}    {{ bold .BuiltAt }}
  {{ faint "Built by" }}    {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .Platform }}
  {{ faint "Engine" }}      {{ bold .Engine }}
`))

// versionCmd prints build metadata and announces newer releases.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()

		switch {
		case lo.Must(cmd.Flags().GetBool("short")):
			cmd.Println(info.Version)
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
		default:
			handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
			version.Notify()
		}
	},
}
