package controller

import (
	"strings"
	"time"
)

// Action names what produced a change.
type Action string

const (
	ActionGoTo            Action = "goto"
	ActionComplete        Action = "complete"
	ActionAutoPlayStart   Action = "autoplay_start"
	ActionAutoPlayAdvance Action = "autoplay_advance"
	ActionAutoPlayFinish  Action = "autoplay_finish"
	ActionAutoPlayStop    Action = "autoplay_stop"
	ActionReset           Action = "reset"
)

// Change is delivered to subscribers after every state mutation.
type Change struct {
	Action Action

	// StageID is the stage the action targeted. For timer-driven changes it
	// is the stage whose dwell elapsed.
	StageID string

	Previous  Snapshot
	Current   Snapshot
	Timestamp time.Time
}

// Entered reports whether the change moved the current stage.
func (c Change) Entered() bool {
	return c.Previous.CurrentStageID != c.Current.CurrentStageID
}

// NewlyCompleted returns stage ids completed by this change, in registry order.
func (c Change) NewlyCompleted() []string {
	var out []string
	for _, id := range c.Current.CompletedStageIDs {
		if !c.Previous.IsCompleted(id) {
			out = append(out, id)
		}
	}
	return out
}

// AutoPlayFinished reports whether auto-play ran to its end in this change.
func (c Change) AutoPlayFinished() bool {
	if c.Current.AutoPlaying {
		return false
	}
	switch c.Action {
	case ActionAutoPlayStart, ActionAutoPlayAdvance, ActionAutoPlayFinish:
		return true
	default:
		return false
	}
}

// Subscriber receives controller changes. OnStageChange runs synchronously
// on the goroutine that made the change; it must not block and must not call
// back into the controller.
type Subscriber interface {
	OnStageChange(change Change)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(change Change)

// OnStageChange calls f.
func (f SubscriberFunc) OnStageChange(change Change) {
	f(change)
}

// Subscribe registers a subscriber under id.
func (c *Controller) Subscribe(id string, sub Subscriber) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrSubscriberIDMissing
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	if _, exists := c.subscribers[id]; exists {
		return ErrSubscriberExists
	}
	c.subscribers[id] = sub
	c.subOrder = append(c.subOrder, id)
	return nil
}

// SubscribeFunc registers a function subscriber under id.
func (c *Controller) SubscribeFunc(id string, fn func(Change)) error {
	return c.Subscribe(id, SubscriberFunc(fn))
}

// Unsubscribe removes the subscriber registered under id.
func (c *Controller) Unsubscribe(id string) error {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if _, exists := c.subscribers[id]; !exists {
		return ErrSubscriberNotFound
	}
	delete(c.subscribers, id)
	for i, existing := range c.subOrder {
		if existing == id {
			c.subOrder = append(c.subOrder[:i], c.subOrder[i+1:]...)
			break
		}
	}
	return nil
}

// deliver fans a change out in subscription order.
func (c *Controller) deliver(change Change) {
	c.subMu.RLock()
	subs := make([]Subscriber, 0, len(c.subOrder))
	for _, id := range c.subOrder {
		subs = append(subs, c.subscribers[id])
	}
	c.subMu.RUnlock()

	for _, sub := range subs {
		sub.OnStageChange(change)
	}
}
