package controller

import "slices"

// Snapshot is an immutable copy of the sequence state. Slices are owned by
// the snapshot and never shared with the controller.
type Snapshot struct {
	// CurrentStageID is the active stage.
	CurrentStageID string `json:"current_stage_id"`

	// CurrentIndex is the registry position of the active stage.
	CurrentIndex int `json:"current_index"`

	// CompletedStageIDs lists completed stages in registry order.
	CompletedStageIDs []string `json:"completed_stage_ids"`

	// AccessibleStageIDs lists the stages GoTo would accept right now.
	AccessibleStageIDs []string `json:"accessible_stage_ids"`

	// AutoPlaying is true while the dwell timer drives navigation.
	AutoPlaying bool `json:"auto_playing"`

	// AutoPlayCursor is the index into the auto-play sequence, or -1 when
	// auto-play is off.
	AutoPlayCursor int `json:"auto_play_cursor"`

	// Revision increases by one with every published change.
	Revision uint64 `json:"revision"`
}

// IsCompleted reports whether id has been completed.
func (s Snapshot) IsCompleted(id string) bool {
	return slices.Contains(s.CompletedStageIDs, id)
}

// IsAccessible reports whether GoTo(id) would have been accepted when the
// snapshot was taken.
func (s Snapshot) IsAccessible(id string) bool {
	return slices.Contains(s.AccessibleStageIDs, id)
}

// SameState compares everything except Revision.
func (s Snapshot) SameState(other Snapshot) bool {
	return s.CurrentStageID == other.CurrentStageID &&
		s.CurrentIndex == other.CurrentIndex &&
		s.AutoPlaying == other.AutoPlaying &&
		s.AutoPlayCursor == other.AutoPlayCursor &&
		slices.Equal(s.CompletedStageIDs, other.CompletedStageIDs) &&
		slices.Equal(s.AccessibleStageIDs, other.AccessibleStageIDs)
}
