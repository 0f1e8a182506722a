package styles

import "strings"

// ThemeTokens defines the semantic color roles for the TUI.
type ThemeTokens struct {
	Background string
	Panel      string
	Text       string
	TextMuted  string
	Border     string
	Accent     string
	Focus      string
	Success    string
	Warning    string
	Error      string
	Info       string

	// Quantum colours the auto-play banner and progress fill.
	Quantum string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// DefaultTheme is a dark slate palette with a violet accent.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "#0D1117",
		Panel:      "#161B22",
		Text:       "#E6EDF3",
		TextMuted:  "#7D8590",
		Border:     "#30363D",
		Accent:     "#A371F7",
		Focus:      "#D2A8FF",
		Success:    "#3FB950",
		Warning:    "#D29922",
		Error:      "#F85149",
		Info:       "#58A6FF",
		Quantum:    "#00C2D1",
	},
}

// HighContrastTheme favors visibility on low-contrast terminals.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Tokens: ThemeTokens{
		Background: "#000000",
		Panel:      "#000000",
		Text:       "#FFFFFF",
		TextMuted:  "#D0D0D0",
		Border:     "#FFFFFF",
		Accent:     "#FF66FF",
		Focus:      "#FFFF00",
		Success:    "#00FF00",
		Warning:    "#FFB000",
		Error:      "#FF3030",
		Info:       "#00FFFF",
		Quantum:    "#00FFFF",
	},
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	DefaultTheme.Name:      DefaultTheme,
	HighContrastTheme.Name: HighContrastTheme,
}

// ThemeByName looks a theme up case-insensitively, falling back to the
// default theme.
func ThemeByName(name string) Theme {
	if theme, ok := Themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return theme
	}
	return DefaultTheme
}
