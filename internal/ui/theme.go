package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logscope/internal/trace"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and status bars
	FocusBg    string // Trace viewport

	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string

	// Per-level trace colors, indexed by trace.Level.
	LevelColors [trace.Fatal + 1]string
}

// LevelColor returns the color for level, or Text for unknown levels.
func (t Theme) LevelColor(level trace.Level) string {
	if !level.Valid() || t.LevelColors[level] == "" {
		return t.Text
	}
	return t.LevelColors[level]
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	s := Styles{
		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
	}
	for l := trace.Verbose; l <= trace.Fatal; l++ {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(t.LevelColor(l)))
		if l >= trace.Error {
			style = style.Bold(true)
		}
		s.Levels[l] = style
	}
	return s
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Surface lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Logo        lipgloss.Style

	Levels [trace.Fatal + 1]lipgloss.Style
}

// Level returns the style for a trace level.
func (s Styles) Level(level trace.Level) lipgloss.Style {
	if !level.Valid() {
		return s.Text
	}
	return s.Levels[level]
}

// Theme definitions

var themes = map[string]Theme{
	"Dracula":  draculaTheme(),
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Dracula", "Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21", // BGDarker
		Surface:    "#21222C", // BGDark
		FocusBg:    "#282A36", // Background

		Border:      "#44475A", // Selection
		BorderFocus: "#BD93F9", // Purple

		Text:    "#F8F8F2", // Foreground
		Muted:   "#6272A4", // Comment
		Faint:   "#44475A", // Selection
		Accent:  "#BD93F9", // Purple
		Warning: "#FFB86C", // Orange
		Danger:  "#FF5555", // Red

		LevelColors: [trace.Fatal + 1]string{
			trace.Verbose: "#6272A4", // Comment
			trace.Debug:   "#8BE9FD", // Cyan
			trace.Info:    "#50FA7B", // Green
			trace.Warning: "#FFB86C", // Orange
			trace.Error:   "#FF5555", // Red
			trace.Assert:  "#FF79C6", // Pink
			trace.Fatal:   "#FF5555", // Red
		},
	}
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		FocusBg:    "#212e3f", // bg2

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red

		LevelColors: [trace.Fatal + 1]string{
			trace.Verbose: "#738091", // comment
			trace.Debug:   "#63cdcf", // cyan
			trace.Info:    "#81b29a", // green
			trace.Warning: "#dbc074", // yellow
			trace.Error:   "#c94f6d", // red
			trace.Assert:  "#9d79d6", // magenta
			trace.Fatal:   "#f4a261", // orange
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		FocusBg:    "#2A2A37", // sumiInk4

		Border:      "#54546D", // sumiInk6
		BorderFocus: "#7E9CD8", // crystalBlue

		Text:    "#DCD7BA", // fujiWhite
		Muted:   "#C8C093", // oldWhite
		Faint:   "#727169", // fujiGray
		Accent:  "#7E9CD8", // crystalBlue
		Warning: "#E6C384", // carpYellow
		Danger:  "#E46876", // waveRed

		LevelColors: [trace.Fatal + 1]string{
			trace.Verbose: "#727169", // fujiGray
			trace.Debug:   "#7FB4CA", // springBlue
			trace.Info:    "#98BB6C", // springGreen
			trace.Warning: "#E6C384", // carpYellow
			trace.Error:   "#E46876", // waveRed
			trace.Assert:  "#957FB8", // oniViolet
			trace.Fatal:   "#FF5D62", // peachRed
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		FocusBg:    "#1e293b", // slate-800

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500

		LevelColors: [trace.Fatal + 1]string{
			trace.Verbose: "#64748b", // slate-500
			trace.Debug:   "#06b6d4", // cyan-500
			trace.Info:    "#22c55e", // green-500
			trace.Warning: "#f59e0b", // amber-500
			trace.Error:   "#ef4444", // red-500
			trace.Assert:  "#ec4899", // pink-500
			trace.Fatal:   "#dc2626", // red-600
		},
	}
}
