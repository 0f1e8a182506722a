// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/kundanareddy2830/quantum-sight/internal/tui/styles"
)

// Notice is a boxed message with optional key hints, used where a panel has
// nothing regular to show.
type Notice struct {
	// Icon is an optional glyph shown before the title.
	Icon string
	// Title is the main message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Hints are keys or commands the user can try next.
	Hints []Hint
}

// Hint pairs a key or command with what it does.
type Hint struct {
	Key         string
	Description string
}

// Render renders the notice with the given styles.
func (n Notice) Render(styleSet styles.Styles) string {
	var lines []string

	titleLine := n.Title
	if n.Icon != "" {
		titleLine = n.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	if n.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(n.Subtitle))
	}

	if len(n.Hints) > 0 {
		lines = append(lines, "")
		for _, h := range n.Hints {
			line := fmt.Sprintf("  %s", styleSet.Accent.Render(h.Key))
			if h.Description != "" {
				line += styleSet.Muted.Render(fmt.Sprintf("  %s", h.Description))
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders the notice on a single line.
func (n Notice) RenderCompact(styleSet styles.Styles) string {
	line := n.Title
	if n.Icon != "" {
		line = n.Icon + " " + line
	}
	if len(n.Hints) > 0 {
		line += fmt.Sprintf(" (%s: %s)", n.Hints[0].Key, n.Hints[0].Description)
	}
	return styleSet.Muted.Render(line)
}

// TerminalTooSmall is shown when the window cannot fit the layout.
func TerminalTooSmall(width, height, minWidth, minHeight int) Notice {
	return Notice{
		Title:    fmt.Sprintf("Terminal too small (%dx%d).", width, height),
		Subtitle: fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight),
		Hints: []Hint{
			{Key: "q", Description: "quit"},
		},
	}
}

// StageLocked explains why navigation was refused.
func StageLocked(title, blocker string) Notice {
	subtitle := "Complete the current stage first."
	if blocker != "" {
		subtitle = fmt.Sprintf("Complete %q first.", blocker)
	}
	return Notice{
		Icon:     "🔒",
		Title:    fmt.Sprintf("%s is locked", title),
		Subtitle: subtitle,
		Hints: []Hint{
			{Key: "space", Description: "complete current stage"},
		},
	}
}

// TourFinished is shown once auto-play has reached its last stage.
func TourFinished() Notice {
	return Notice{
		Icon:  "✅",
		Title: "Auto-play finished",
		Hints: []Hint{
			{Key: "a", Description: "replay"},
			{Key: "r", Description: "start over"},
		},
	}
}
