// Package controller implements the stage-sequencing state machine that
// drives a walkthrough: current stage, completion gating, timed auto-play
// and reset.
package controller

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kundanareddy2830/quantum-sight/internal/clock"
	"github.com/kundanareddy2830/quantum-sight/internal/logging"
	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for dwell timers and change timestamps.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(ctrl *Controller) {
		ctrl.logger = logger
	}
}

// Controller is the sole owner of the sequence state. All methods are safe
// for concurrent use; mutations are serialized and published to subscribers
// in the order they were applied.
type Controller struct {
	registry *stages.Registry
	autoPlay []int // registry positions of the auto-play sequence
	clock    clock.Clock
	logger   zerolog.Logger

	mu          sync.Mutex
	current     int
	completed   []bool
	autoPlaying bool
	cursor      int
	timer       clock.Timer
	timerGen    uint64
	revision    uint64
	closed      bool

	// notifyMu is taken before mu is released so deliveries keep mutation order.
	notifyMu sync.Mutex

	subMu       sync.RWMutex
	subscribers map[string]Subscriber
	subOrder    []string
}

// New creates a controller in its initial state: first stage current,
// nothing completed, auto-play off.
func New(registry *stages.Registry, opts ...Option) (*Controller, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, stages.ErrEmptyRegistry
	}

	c := &Controller{
		registry:    registry,
		clock:       clock.NewReal(),
		logger:      logging.Component("controller"),
		completed:   make([]bool, registry.Len()),
		subscribers: make(map[string]Subscriber),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, id := range registry.AutoPlaySequence() {
		pos, err := registry.IndexOf(id)
		if err != nil {
			return nil, err
		}
		c.autoPlay = append(c.autoPlay, pos)
	}

	return c, nil
}

// Registry returns the registry the controller was built with.
func (c *Controller) Registry() *stages.Registry {
	return c.registry
}

// Snapshot returns an immutable copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// CanGoTo reports whether GoTo(id) would be accepted right now.
func (c *Controller) CanGoTo(id string) bool {
	pos, err := c.registry.IndexOf(id)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canGoToLocked(pos)
}

// GoTo moves to id. The current stage, completed stages and the first stage
// are always reachable; any other stage is reachable once its registry
// predecessor is completed. Anything else, and any navigation during
// auto-play, is rejected with ErrStageNotAccessible and leaves the state
// untouched.
func (c *Controller) GoTo(id string) error {
	pos, err := c.registry.IndexOf(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.autoPlaying {
		c.mu.Unlock()
		c.logger.Debug().Str("stage", id).Msg("navigation ignored during auto-play")
		return fmt.Errorf("%w: auto-play is active", ErrStageNotAccessible)
	}
	if !c.canGoToLocked(pos) {
		current := c.registry.At(c.current).ID
		c.mu.Unlock()
		c.logger.Debug().Str("stage", id).Str("current", current).Msg("navigation rejected")
		return fmt.Errorf("%w: %q", ErrStageNotAccessible, id)
	}
	if pos == c.current {
		c.mu.Unlock()
		return nil
	}

	prev := c.snapshotLocked()
	c.current = pos
	c.logger.Debug().Str("from", prev.CurrentStageID).Str("to", id).Msg("stage entered")
	c.commitAndUnlock(ActionGoTo, id, prev)
	return nil
}

// Complete marks id completed and advances to its successor. Completing a
// stage twice leaves the completed set unchanged. id must be current.
func (c *Controller) Complete(id string) error {
	pos, err := c.registry.IndexOf(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.autoPlaying {
		c.mu.Unlock()
		return fmt.Errorf("%w: auto-play is active", ErrStageNotAccessible)
	}
	if pos != c.current {
		current := c.registry.At(c.current).ID
		c.mu.Unlock()
		return fmt.Errorf("%w: %q (current is %q)", ErrNotCurrentStage, id, current)
	}

	prev := c.snapshotLocked()
	changed := false
	if !c.completed[pos] {
		c.completed[pos] = true
		changed = true
	}
	if pos+1 < c.registry.Len() {
		c.current = pos + 1
		changed = true
	}
	if !changed {
		c.mu.Unlock()
		return nil
	}

	c.logger.Debug().Str("stage", id).Str("next", c.registry.At(c.current).ID).Msg("stage completed")
	c.commitAndUnlock(ActionComplete, id, prev)
	return nil
}

// StartAutoPlay jumps to the first auto-play stage and arms its dwell timer.
// Calling it while already playing restarts from the beginning; the previous
// timer is cancelled first.
func (c *Controller) StartAutoPlay() error {
	if len(c.autoPlay) == 0 {
		return ErrNoAutoPlay
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	prev := c.snapshotLocked()
	c.cancelTimerLocked()
	c.autoPlaying = true
	c.cursor = 0
	c.current = c.autoPlay[0]
	first := c.registry.At(c.current).ID

	if c.enterAutoPlayStageLocked() {
		c.logger.Info().Str("stage", first).Msg("auto-play finished immediately")
	} else {
		c.logger.Info().
			Str("stage", first).
			Int("stages", len(c.autoPlay)).
			Msg("auto-play started")
	}
	c.commitAndUnlock(ActionAutoPlayStart, first, prev)
	return nil
}

// StopAutoPlay cancels the pending dwell timer and leaves the current stage
// and completed set as they are. It is a no-op when auto-play is off.
func (c *Controller) StopAutoPlay() {
	c.mu.Lock()
	if !c.autoPlaying {
		c.mu.Unlock()
		return
	}

	prev := c.snapshotLocked()
	c.cancelTimerLocked()
	c.autoPlaying = false
	c.cursor = 0
	c.logger.Info().Str("stage", prev.CurrentStageID).Msg("auto-play stopped")
	c.commitAndUnlock(ActionAutoPlayStop, prev.CurrentStageID, prev)
}

// Reset cancels any pending timer and returns to the initial state.
func (c *Controller) Reset() {
	c.mu.Lock()
	prev := c.snapshotLocked()
	c.cancelTimerLocked()
	c.current = 0
	for i := range c.completed {
		c.completed[i] = false
	}
	c.autoPlaying = false
	c.cursor = 0
	c.logger.Info().Msg("sequence reset")
	c.commitAndUnlock(ActionReset, c.registry.First().ID, prev)
}

// Close cancels any pending timer and drops all subscribers. A closed
// controller refuses to start auto-play.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.autoPlaying = false
	c.closed = true
	c.mu.Unlock()

	c.subMu.Lock()
	c.subscribers = make(map[string]Subscriber)
	c.subOrder = nil
	c.subMu.Unlock()
}

// onDwellElapsed runs on the timer goroutine. A generation mismatch means the
// timer was cancelled or replaced after it fired, so the callback is dropped.
func (c *Controller) onDwellElapsed(gen uint64) {
	c.mu.Lock()
	if c.closed || !c.autoPlaying || gen != c.timerGen {
		c.mu.Unlock()
		c.logger.Debug().Uint64("generation", gen).Msg("stale dwell timer suppressed")
		return
	}
	c.timer = nil

	prev := c.snapshotLocked()
	fired := c.registry.At(c.current).ID
	c.completed[c.current] = true

	action := ActionAutoPlayAdvance
	if c.cursor+1 < len(c.autoPlay) {
		c.cursor++
		c.current = c.autoPlay[c.cursor]
		if c.enterAutoPlayStageLocked() {
			action = ActionAutoPlayFinish
		}
	} else {
		c.autoPlaying = false
		c.cursor = 0
		action = ActionAutoPlayFinish
	}

	if action == ActionAutoPlayFinish {
		c.logger.Info().Str("stage", c.registry.At(c.current).ID).Msg("auto-play finished")
	} else {
		c.logger.Debug().Str("from", fired).Str("to", c.registry.At(c.current).ID).Msg("auto-play advanced")
	}
	c.commitAndUnlock(action, fired, prev)
}

// enterAutoPlayStageLocked arms the dwell timer for the current stage. A
// terminal stage ends auto-play at once; it reports true in that case.
func (c *Controller) enterAutoPlayStageLocked() bool {
	d := c.registry.At(c.current)
	if d.Terminal() {
		c.completed[c.current] = true
		c.autoPlaying = false
		c.cursor = 0
		return true
	}
	c.armTimerLocked(d.Dwell)
	return false
}

func (c *Controller) armTimerLocked(d time.Duration) {
	c.cancelTimerLocked()
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(d, func() {
		c.onDwellElapsed(gen)
	})
}

// cancelTimerLocked stops the outstanding timer, if any, and bumps the
// generation so a callback already in flight is ignored.
func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

func (c *Controller) canGoToLocked(pos int) bool {
	if c.autoPlaying {
		return false
	}
	switch {
	case pos == c.current:
		return true
	case c.completed[pos]:
		return true
	case pos == 0:
		return true
	case pos > 0 && c.completed[pos-1]:
		return true
	default:
		return false
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		CurrentStageID:     c.registry.At(c.current).ID,
		CurrentIndex:       c.current,
		CompletedStageIDs:  []string{},
		AccessibleStageIDs: []string{},
		AutoPlaying:        c.autoPlaying,
		AutoPlayCursor:     -1,
		Revision:           c.revision,
	}
	if c.autoPlaying {
		snap.AutoPlayCursor = c.cursor
	}
	for pos, done := range c.completed {
		id := c.registry.At(pos).ID
		if done {
			snap.CompletedStageIDs = append(snap.CompletedStageIDs, id)
		}
		if c.canGoToLocked(pos) {
			snap.AccessibleStageIDs = append(snap.AccessibleStageIDs, id)
		}
	}
	return snap
}

// commitAndUnlock publishes the change and releases mu. The delivery lock is
// acquired while mu is still held, so no later mutation can be delivered
// ahead of this one.
func (c *Controller) commitAndUnlock(action Action, stageID string, prev Snapshot) {
	c.revision++
	change := Change{
		Action:    action,
		StageID:   stageID,
		Previous:  prev,
		Current:   c.snapshotLocked(),
		Timestamp: c.clock.Now().UTC(),
	}

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	c.deliver(change)
}
