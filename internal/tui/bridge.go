package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kundanareddy2830/quantum-sight/internal/controller"
)

// ChangeMsg carries the newest controller change into the program.
type ChangeMsg struct {
	Change controller.Change
}

// Bridge is a controller subscriber that hands changes to a bubbletea
// program. OnStageChange never blocks: only the latest change is kept and a
// single wake-up token signals the program's pending Wait command.
type Bridge struct {
	mu     sync.Mutex
	latest *controller.Change
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewBridge creates an open bridge.
func NewBridge() *Bridge {
	return &Bridge{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// OnStageChange implements controller.Subscriber.
func (b *Bridge) OnStageChange(change controller.Change) {
	b.mu.Lock()
	b.latest = &change
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Wait returns a command that blocks until a change is pending and yields
// it as a ChangeMsg. It yields nil once the bridge is closed.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-b.wake:
			case <-b.done:
				return nil
			}

			b.mu.Lock()
			latest := b.latest
			b.latest = nil
			b.mu.Unlock()

			if latest != nil {
				return ChangeMsg{Change: *latest}
			}
		}
	}
}

// Close releases any pending Wait.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}
