package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kundanareddy2830/quantum-sight/internal/tui/styles"
)

// StageStatus is how a stage appears in the navigation list.
type StageStatus int

const (
	StageLockedStatus StageStatus = iota
	StageOpen
	StageCompleted
	StageActive
)

// String returns the status label.
func (s StageStatus) String() string {
	_, label, _ := stageDescriptor(styles.Styles{}, s)
	return label
}

// RenderStageBadge renders a stage status with icon and color.
func RenderStageBadge(styleSet styles.Styles, status StageStatus) string {
	icon, _, style := stageDescriptor(styleSet, status)
	return style.Render(icon)
}

func stageDescriptor(styleSet styles.Styles, status StageStatus) (string, string, lipgloss.Style) {
	switch status {
	case StageActive:
		return "●", "Active", styleSet.StageActive
	case StageCompleted:
		return "✓", "Completed", styleSet.StageCompleted
	case StageOpen:
		return "○", "Open", styleSet.StageOpen
	default:
		return "·", "Locked", styleSet.StageLocked
	}
}
