package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/surfplay/surfplay/color"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/icon"
	"github.com/surfplay/surfplay/style"
)

// statusLines is the number of lines drawn around the video area.
const statusLines = 9

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *statefulBubble) View() string {
	switch b.state {
	case errorState:
		return b.viewError()
	default:
		return b.viewPlayer()
	}
}

func (b *statefulBubble) viewPlayer() string {
	s := b.snapshot

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(icon.Get(icon.Play) + " " + style.Fg(color.Purple)(b.locator)),
		"",
		b.viewStatus(s),
		b.progressC.ViewAs(s.Progress()),
		style.Faint(fmt.Sprintf("%s / %s", formatMillis(s.Position), formatMillis(s.Duration))),
		"",
		b.viewSurface(s),
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewStatus(s controller.Snapshot) string {
	var status string

	switch s.State {
	case controller.Idle, controller.Preparing, controller.Releasing:
		if !s.SurfaceAlive {
			status = icon.Get(icon.Surface) + " waiting for surface"
		} else {
			status = b.spinnerC.View() + " " + s.State.String()
		}
	case controller.Playing:
		status = icon.Get(icon.Play) + " playing"
	case controller.Paused:
		status = icon.Get(icon.Pause) + " paused"
	case controller.Stopped:
		status = icon.Get(icon.Stop) + " stopped"
	case controller.Completed:
		status = icon.Get(icon.Success) + " finished"
	case controller.Error:
		status = icon.Get(icon.Fail) + " error"
	default:
		status = s.State.String()
	}

	if s.Buffer >= 0 {
		status += style.Faint(fmt.Sprintf("  %s %d%%", icon.Get(icon.Buffer), s.Buffer))
	}
	if s.PendingSeek >= 0 {
		status += style.Faint("  seeking to " + formatMillis(s.PendingSeek))
	}

	return style.Truncate(b.width)(status)
}

func (b *statefulBubble) viewSurface(s controller.Snapshot) string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}

	return style.Faint(fmt.Sprintf("%dx%d video, %dx%d cells", s.Width, s.Height, b.layout.Width, b.layout.Height))
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Playback failed:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// formatMillis renders a position as h:mm:ss or m:ss, and --:-- when unknown.
func formatMillis(ms int) string {
	if ms < 0 {
		return "--:--"
	}

	d := time.Duration(ms) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
