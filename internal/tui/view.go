package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kundanareddy2830/quantum-sight/internal/tui/components"
)

func (m model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		return components.TerminalTooSmall(m.width, m.height, minWidth, minHeight).Render(m.styles) + "\n"
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Nav.Render(strings.Join(m.navLines(), "\n")),
		" ",
		m.stagePanel(),
	)

	lines := []string{
		m.headerLine(),
		"",
		body,
		"",
	}
	if m.status != "" {
		lines = append(lines, m.styles.Warning.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))

	return strings.Join(lines, "\n") + "\n"
}

func (m model) headerLine() string {
	title := m.styles.Title.Render("Foresight")
	if name := m.registry.Name(); name != "" {
		title += m.styles.Muted.Render(" · " + name)
	}

	mode := m.styles.Muted.Render("MANUAL")
	if m.snap.AutoPlaying {
		mode = m.styles.Banner.Render(fmt.Sprintf("AUTO-PLAY %d/%d", m.snap.AutoPlayCursor+1, len(m.registry.AutoPlaySequence())))
	}

	return title + "  " + mode
}

func (m model) navLines() []string {
	total := m.registry.Len()
	done := len(m.snap.CompletedStageIDs)

	lines := []string{
		m.progress.ViewAs(float64(done) / float64(total)),
		m.styles.Muted.Render(fmt.Sprintf("%d of %d stages completed", done, total)),
		"",
	}
	for pos, d := range m.registry.Stages() {
		lines = append(lines, components.RenderStageRow(m.styles, components.StageRow{
			Number:   pos + 1,
			Title:    d.Title,
			Status:   m.stageStatus(pos),
			Selected: pos == m.selected,
			AutoPlay: m.registry.InAutoPlay(d.ID),
		}, navWidth))
	}
	return lines
}

func (m model) stagePanel() string {
	current := m.registry.At(m.snap.CurrentIndex)

	lines := []string{
		m.styles.Accent.Render(fmt.Sprintf("Stage %d · ", current.Order+1)) + m.styles.Title.Render(current.Title),
	}
	if current.Description != "" {
		lines = append(lines, m.styles.Muted.Render(current.Description))
	}
	lines = append(lines, "")
	for _, line := range m.narrative.Lines(current.ID) {
		lines = append(lines, m.styles.Text.Render(line))
	}
	if current.Tooltip != "" {
		lines = append(lines, "", m.styles.Info.Render("ⓘ "+current.Tooltip))
	}
	if m.notice != nil {
		lines = append(lines, "", m.notice.Render(m.styles))
	}

	style := m.styles.Panel
	if m.width > 0 {
		if w := m.width - navWidth - 6; w > 20 {
			style = style.Width(w)
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}
