package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/log"
	"github.com/surfplay/surfplay/style"
)

// CheckDependencies verifies that the mpv executable named by player.mpv_path can be found.
func CheckDependencies() {
	mpv := viper.GetString(key.PlayerMpvPath)
	if _, err := exec.LookPath(mpv); err != nil {
		log.Errorf("mpv lookup: %v", err)
		printMissingDependencyError(mpv)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install mpv"
	case constant.Linux:
		installCmd = "sudo apt install mpv"
	case constant.Windows:
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))
	hint := style.New().Foreground(style.FaintColor).Render(fmt.Sprintf("Set %s or use --engine headless.", key.PlayerMpvPath))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			hint,
			suggestion,
		),
	))
}
