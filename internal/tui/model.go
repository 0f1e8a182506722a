// Package tui implements the foresight walkthrough terminal user interface.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/kundanareddy2830/quantum-sight/internal/controller"
	"github.com/kundanareddy2830/quantum-sight/internal/logging"
	"github.com/kundanareddy2830/quantum-sight/internal/narrative"
	"github.com/kundanareddy2830/quantum-sight/internal/stages"
	"github.com/kundanareddy2830/quantum-sight/internal/tui/components"
	"github.com/kundanareddy2830/quantum-sight/internal/tui/styles"
)

const (
	minWidth  = 72
	minHeight = 18
	navWidth  = 32
)

// Config configures the walkthrough UI.
type Config struct {
	// Controller drives the walkthrough. Required.
	Controller *controller.Controller

	// Narrative supplies the main panel text. Default: narrative.New().
	Narrative *narrative.Provider

	// Theme is a styles theme name. Default: "default".
	Theme string

	// SubscriberID names the UI's controller subscription. Default: "tui".
	SubscriberID string
}

type model struct {
	ctrl      *controller.Controller
	registry  *stages.Registry
	narrative *narrative.Provider
	bridge    *Bridge
	logger    zerolog.Logger

	styles   styles.Styles
	keys     keyMap
	help     help.Model
	progress progress.Model

	snap     controller.Snapshot
	selected int
	notice   *components.Notice
	status   string

	width  int
	height int
}

func newModel(cfg Config, bridge *Bridge) model {
	provider := cfg.Narrative
	if provider == nil {
		provider = narrative.New()
	}
	styleSet := styles.BuildStyles(styles.ThemeByName(cfg.Theme))

	m := model{
		ctrl:      cfg.Controller,
		registry:  cfg.Controller.Registry(),
		narrative: provider,
		bridge:    bridge,
		logger:    logging.Component("tui"),
		styles:    styleSet,
		keys:      defaultKeyMap(),
		help:      help.New(),
		progress: progress.New(
			progress.WithSolidFill(styleSet.Theme.Tokens.Quantum),
			progress.WithoutPercentage(),
			progress.WithWidth(navWidth-2),
		),
	}
	m.snap = m.ctrl.Snapshot()
	m.selected = m.snap.CurrentIndex
	return m
}

func (m model) Init() tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	return m.bridge.Wait()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ChangeMsg:
		m.applySnapshot(msg.Change.Current)
		if msg.Change.AutoPlayFinished() && msg.Change.Current.Revision == m.snap.Revision {
			notice := components.TourFinished()
			m.notice = &notice
		}
		var cmd tea.Cmd
		if m.bridge != nil {
			cmd = m.bridge.Wait()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	m.notice = nil
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected < m.registry.Len()-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.GoTo):
		m.goToSelected()
	case key.Matches(msg, m.keys.Complete):
		if err := m.ctrl.Complete(m.snap.CurrentStageID); err != nil {
			m.status = m.describeError(err)
		}
	case key.Matches(msg, m.keys.AutoPlay):
		if err := m.ctrl.StartAutoPlay(); err != nil {
			m.status = m.describeError(err)
		}
	case key.Matches(msg, m.keys.Stop):
		if !m.snap.AutoPlaying {
			m.status = "Auto-play is not running."
		}
		m.ctrl.StopAutoPlay()
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
		m.status = "Walkthrough reset."
	default:
		return m, nil
	}

	m.applySnapshot(m.ctrl.Snapshot())
	return m, nil
}

func (m *model) goToSelected() {
	target := m.registry.At(m.selected)
	err := m.ctrl.GoTo(target.ID)
	if err == nil {
		return
	}
	if errors.Is(err, controller.ErrStageNotAccessible) && !m.snap.AutoPlaying {
		blocker := ""
		if prev, ok := m.registry.Predecessor(target.ID); ok {
			blocker = prev.Title
		}
		notice := components.StageLocked(target.Title, blocker)
		m.notice = &notice
		return
	}
	m.status = m.describeError(err)
}

// applySnapshot ignores snapshots older than the one shown. The selection
// follows the current stage whenever the current stage moves.
func (m *model) applySnapshot(snap controller.Snapshot) {
	if snap.Revision < m.snap.Revision {
		return
	}
	if snap.CurrentStageID != m.snap.CurrentStageID {
		m.selected = snap.CurrentIndex
	}
	m.snap = snap
}

func (m model) describeError(err error) string {
	switch {
	case errors.Is(err, controller.ErrStageNotAccessible) && m.snap.AutoPlaying:
		return "Auto-play is running. Press s to stop it first."
	case errors.Is(err, controller.ErrNoAutoPlay):
		return fmt.Sprintf("Catalogue %q has no auto-play tour.", m.registry.Name())
	case errors.Is(err, controller.ErrClosed):
		return "The walkthrough has been closed."
	default:
		m.logger.Debug().Err(err).Msg("controller rejected action")
		return err.Error()
	}
}

func (m model) stageStatus(pos int) components.StageStatus {
	id := m.registry.At(pos).ID
	switch {
	case id == m.snap.CurrentStageID:
		return components.StageActive
	case m.snap.IsCompleted(id):
		return components.StageCompleted
	case m.snap.IsAccessible(id):
		return components.StageOpen
	default:
		return components.StageLockedStatus
	}
}
