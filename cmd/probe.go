package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/network"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/util"
)

const probeTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	probeCmd.SetOut(os.Stdout)
}

// probeCmd prints the metadata found in the head of an MP4 stream.
var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Print the duration, size and tracks of an MP4 stream",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJson := lo.Must(cmd.Flags().GetBool("json"))

		erase := util.PrintErasable(fmt.Sprintf("%s Probing...", icon.Get(icon.Progress)))
		info, err := probe(cmd.Context(), args[0])
		erase()
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(info))
			return
		}

		printInfo(cmd.OutOrStdout(), info)
	},
}

// probe fetches at most headless.probe_size bytes of locator and reads its MP4 head.
func probe(ctx context.Context, locator string) (*engine.Info, error) {
	safe, err := engine.ValidateLocator(locator)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, safe, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	return engine.ReadInfo(io.LimitReader(resp.Body, viper.GetInt64(key.HeadlessProbeSize)))
}

func printInfo(out io.Writer, info *engine.Info) {
	label := style.Fg(color.Blue)
	value := style.Fg(color.Yellow)

	duration := "unknown"
	if info.Duration >= 0 {
		duration = (time.Duration(info.Duration) * time.Millisecond).String()
	}

	_, _ = fmt.Fprintf(out, "%s   %s\n", label("Duration:"), value(duration))
	_, _ = fmt.Fprintf(out, "%s       %s\n", label("Size:"), value(fmt.Sprintf("%dx%d", info.Width, info.Height)))
	_, _ = fmt.Fprintf(out, "%s %s\n", label("Fragmented:"), value(fmt.Sprint(info.Fragmented)))
	_, _ = fmt.Fprintf(out, "%s  %s\n", label("Head size:"), value(fmt.Sprintf("%d bytes", info.HeadSize)))

	if len(info.Tracks) == 0 {
		return
	}

	_, _ = fmt.Fprintf(out, "\n%s\n", style.Bold(util.Quantify(len(info.Tracks), "track", "tracks")))
	for _, t := range info.Tracks {
		line := fmt.Sprintf("  #%d %s %s", t.ID, style.Fg(color.Purple)(t.Handler), style.Faint(fmt.Sprintf("timescale %d", t.Timescale)))
		if t.Width > 0 && t.Height > 0 {
			line += fmt.Sprintf(" %dx%d", t.Width, t.Height)
		}
		_, _ = fmt.Fprintln(out, line)
	}
}
