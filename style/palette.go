package style

import "github.com/charmbracelet/lipgloss"

// Palette used by the player view and CLI boxes.
var (
	Text     = lipgloss.Color("#cdd6f4")
	Overlay  = lipgloss.Color("#6c7086")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Lavender = lipgloss.Color("#b4befe")

	AccentColor = Mauve
	HiRed       = Red
	FaintColor  = Overlay
)
