// Package styles derives lipgloss styles from theme tokens.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme   Theme
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Panel   lipgloss.Style
	Nav     lipgloss.Style
	Border  lipgloss.Style
	Focus   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Banner  lipgloss.Style

	// Stage status styles used by the navigation list.
	StageActive    lipgloss.Style
	StageCompleted lipgloss.Style
	StageOpen      lipgloss.Style
	StageLocked    lipgloss.Style
	Selected       lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens
	color := func(value string) lipgloss.Color { return lipgloss.Color(value) }

	return Styles{
		Theme:   theme,
		Title:   lipgloss.NewStyle().Foreground(color(tokens.Text)).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(color(tokens.Text)),
		Muted:   lipgloss.NewStyle().Foreground(color(tokens.TextMuted)),
		Accent:  lipgloss.NewStyle().Foreground(color(tokens.Accent)),
		Panel:   lipgloss.NewStyle().Foreground(color(tokens.Text)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(color(tokens.Border)).Padding(0, 1),
		Nav:     lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(color(tokens.Border)).PaddingRight(1),
		Border:  lipgloss.NewStyle().Foreground(color(tokens.Border)),
		Focus:   lipgloss.NewStyle().Foreground(color(tokens.Focus)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(color(tokens.Success)),
		Warning: lipgloss.NewStyle().Foreground(color(tokens.Warning)),
		Error:   lipgloss.NewStyle().Foreground(color(tokens.Error)),
		Info:    lipgloss.NewStyle().Foreground(color(tokens.Info)),
		Banner:  lipgloss.NewStyle().Foreground(color(tokens.Background)).Background(color(tokens.Quantum)).Bold(true).Padding(0, 1),

		StageActive:    lipgloss.NewStyle().Foreground(color(tokens.Accent)).Bold(true),
		StageCompleted: lipgloss.NewStyle().Foreground(color(tokens.Success)),
		StageOpen:      lipgloss.NewStyle().Foreground(color(tokens.Text)),
		StageLocked:    lipgloss.NewStyle().Foreground(color(tokens.TextMuted)).Faint(true),
		Selected:       lipgloss.NewStyle().Foreground(color(tokens.Focus)).Bold(true),
	}
}
