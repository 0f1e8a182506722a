package components

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/kundanareddy2830/quantum-sight/internal/tui/styles"
)

// StageRow is one entry in the navigation list.
type StageRow struct {
	Number   int
	Title    string
	Status   StageStatus
	Selected bool
	AutoPlay bool
}

// RenderStageRow renders row within width display cells. Titles are cut
// with an ellipsis rather than wrapped.
func RenderStageRow(styleSet styles.Styles, row StageRow, width int) string {
	cursor := "  "
	if row.Selected {
		cursor = styleSet.Selected.Render("> ")
	}
	marker := " "
	if row.AutoPlay {
		marker = styleSet.Info.Render("»")
	}
	prefix := fmt.Sprintf("%2d ", row.Number)

	// cursor(2) + badge(1) + space + marker(1) + space + prefix
	used := 2 + 1 + 1 + 1 + 1 + runewidth.StringWidth(prefix)
	title := row.Title
	if width > used {
		title = runewidth.Truncate(title, width-used, "…")
	}

	titleStyle := styleSet.StageOpen
	switch {
	case row.Selected:
		titleStyle = styleSet.Selected
	case row.Status == StageActive:
		titleStyle = styleSet.StageActive
	case row.Status == StageLockedStatus:
		titleStyle = styleSet.StageLocked
	}

	return cursor + RenderStageBadge(styleSet, row.Status) + " " + marker + " " +
		styleSet.Muted.Render(prefix) + titleStyle.Render(title)
}
