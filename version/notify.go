package version

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/log"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/util"
)

// Notify prints a banner when the configured endpoint publishes a release newer
// than the running build. A failed lookup prints nothing.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) || viper.GetString(key.CliReleasesURL) == "" {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	release, err := Latest()
	erase()
	if err != nil {
		log.Debugf("version check: %v", err)
		return
	}

	announce(os.Stdout, release, constant.Version)
}

// announce writes the banner for release to w if it is newer than current.
// It reports whether anything was written.
func announce(w io.Writer, release Release, current string) bool {
	comp, err := Compare(release.Version, current)
	if err != nil {
		log.Debugf("version check: %v", err)
		return false
	}
	if comp <= 0 {
		return false
	}

	fmt.Fprintf(w, "\n%s New version is available %s %s\n",
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(release.Version),
		style.Faint(fmt.Sprintf("(You're on %s)", current)),
	)
	if release.URL != "" {
		fmt.Fprintln(w, style.Faint(release.URL))
	}
	fmt.Fprintln(w)
	return true
}
