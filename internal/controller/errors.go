package controller

import (
	"errors"

	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

// Controller errors.
var (
	// ErrUnknownStage is returned when an id is not in the registry.
	ErrUnknownStage = stages.ErrUnknownStage

	// ErrStageNotAccessible is returned when navigation is rejected, either
	// because the target is locked or because auto-play owns navigation.
	ErrStageNotAccessible = errors.New("stage not accessible")

	// ErrNotCurrentStage is returned when Complete names a stage that is not
	// the current one. It means the caller is out of sync.
	ErrNotCurrentStage = errors.New("stage is not current")

	ErrNoAutoPlay          = errors.New("registry has no auto-play sequence")
	ErrClosed              = errors.New("controller is closed")
	ErrSubscriberExists    = errors.New("subscriber already registered")
	ErrSubscriberNotFound  = errors.New("subscriber not found")
	ErrSubscriberIDMissing = errors.New("subscriber id is required")
)
