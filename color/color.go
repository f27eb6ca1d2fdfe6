// Package color holds the terminal colors used by CLI output.
package color

import "github.com/charmbracelet/lipgloss"

// New returns a lipgloss color from an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors, so output follows the terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)

// Orange highlights the primary key binding in the help view.
var Orange = New("#ffb703")
