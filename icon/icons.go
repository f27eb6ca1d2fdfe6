package icon

// Icon identifies a symbol in the global registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Play
	Pause
	Stop
	Buffer
	Surface
	Resume
)

var icons = map[Icon]glyphs{
	Fail: {
		emoji:   "💀",
		nerd:    "\uf00d",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "\uf00c",
		plain:   "OK",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf110",
		plain:   "...",
		kaomoji: "(￣ー￣)",
		squares: "🟦",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "\uf04b",
		plain:   ">",
		kaomoji: "(•̀ᴗ•́)",
		squares: "🟩",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "\uf04c",
		plain:   "||",
		kaomoji: "(－_－)",
		squares: "🟨",
	},
	Stop: {
		emoji:   "⏹️",
		nerd:    "\uf04d",
		plain:   "[]",
		kaomoji: "(・_・)",
		squares: "🟥",
	},
	Buffer: {
		emoji:   "📶",
		nerd:    "\uf012",
		plain:   "~",
		kaomoji: "(°ロ°)",
		squares: "🟪",
	},
	Surface: {
		emoji:   "🖥️",
		nerd:    "\uf108",
		plain:   "#",
		kaomoji: "[◉_◉]",
		squares: "⬛",
	},
	Resume: {
		emoji:   "⏪",
		nerd:    "\uf01e",
		plain:   "<<",
		kaomoji: "(ↀДↀ)",
		squares: "🟧",
	},
}
