package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the walkthrough program and blocks until the user quits.
func Run(cfg Config) error {
	if cfg.Controller == nil {
		return fmt.Errorf("controller is required")
	}
	subscriberID := cfg.SubscriberID
	if subscriberID == "" {
		subscriberID = "tui"
	}

	bridge := NewBridge()
	if err := cfg.Controller.Subscribe(subscriberID, bridge); err != nil {
		return fmt.Errorf("failed to subscribe to controller: %w", err)
	}
	defer func() {
		_ = cfg.Controller.Unsubscribe(subscriberID)
		bridge.Close()
	}()

	program := tea.NewProgram(newModel(cfg, bridge), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
