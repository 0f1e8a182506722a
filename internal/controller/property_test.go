package controller

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"pgregory.net/rapid"

	"github.com/kundanareddy2830/quantum-sight/internal/clock"
	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

// genRegistry draws a registry of 1..8 stages and an auto-play sequence made
// of an increasing subset whose last entry may be terminal.
func genRegistry(t *rapid.T) *stages.Registry {
	n := rapid.IntRange(1, 8).Draw(t, "stages")
	descriptors := make([]stages.Descriptor, n)
	for i := range descriptors {
		descriptors[i] = stages.Descriptor{
			ID:    fmt.Sprintf("s%d", i),
			Dwell: time.Duration(rapid.IntRange(1, 500).Draw(t, fmt.Sprintf("dwell%d", i))) * time.Millisecond,
		}
	}

	var autoPlay []string
	for i := range descriptors {
		if rapid.Bool().Draw(t, fmt.Sprintf("auto%d", i)) {
			autoPlay = append(autoPlay, descriptors[i].ID)
		}
	}
	if len(autoPlay) > 0 && rapid.Bool().Draw(t, "terminalLast") {
		last := autoPlay[len(autoPlay)-1]
		for i := range descriptors {
			if descriptors[i].ID == last {
				descriptors[i].Dwell = 0
			}
		}
	}

	r, err := stages.NewRegistry("generated", descriptors, autoPlay)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func newPropertyController(t *rapid.T, r *stages.Registry) (*Controller, *clock.Manual) {
	clk := clock.NewManual(epoch)
	ctrl, err := New(r, WithClock(clk), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ctrl, clk
}

func checkInvariants(t *rapid.T, r *stages.Registry, snap Snapshot) {
	if _, err := r.IndexOf(snap.CurrentStageID); err != nil {
		t.Fatalf("current stage %q not registered", snap.CurrentStageID)
	}
	if snap.AutoPlaying && len(snap.AccessibleStageIDs) != 0 {
		t.Fatalf("nothing may be accessible during auto-play, got %v", snap.AccessibleStageIDs)
	}
	if !snap.AutoPlaying && snap.AutoPlayCursor != -1 {
		t.Fatalf("cursor must be -1 when idle, got %d", snap.AutoPlayCursor)
	}
	if !snap.AutoPlaying {
		want := expectedAccessible(r, snap)
		if fmt.Sprint(want) != fmt.Sprint(snap.AccessibleStageIDs) {
			t.Fatalf("accessible stages %v, want %v (current %q, completed %v)",
				snap.AccessibleStageIDs, want, snap.CurrentStageID, snap.CompletedStageIDs)
		}
	}
}

// expectedAccessible recomputes the stages GoTo should accept while idle:
// the current stage, completed stages, the first stage, and any stage whose
// predecessor is completed.
func expectedAccessible(r *stages.Registry, snap Snapshot) []string {
	ids := r.IDs()
	out := []string{}
	for pos, id := range ids {
		if id == snap.CurrentStageID || pos == 0 || snap.IsCompleted(id) ||
			snap.IsCompleted(ids[pos-1]) {
			out = append(out, id)
		}
	}
	return out
}

func TestPropertyControllerStateMachine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genRegistry(t)
		ctrl, clk := newPropertyController(t, r)
		defer ctrl.Close()
		ids := r.IDs()

		t.Repeat(map[string]func(*rapid.T){
			"goto": func(t *rapid.T) {
				target := rapid.SampledFrom(ids).Draw(t, "target")
				before := ctrl.Snapshot()
				err := ctrl.GoTo(target)

				if !before.AutoPlaying {
					accessible := slices.Contains(expectedAccessible(r, before), target)
					if accessible && err != nil {
						t.Fatalf("GoTo(%q) rejected from %q with completed %v: %v",
							target, before.CurrentStageID, before.CompletedStageIDs, err)
					}
					if !accessible && !errors.Is(err, ErrStageNotAccessible) {
						t.Fatalf("GoTo(%q) accepted from %q with completed %v",
							target, before.CurrentStageID, before.CompletedStageIDs)
					}
				}
				if err != nil && !before.SameState(ctrl.Snapshot()) {
					t.Fatalf("rejected GoTo changed state")
				}
				if err == nil && ctrl.Snapshot().CurrentStageID != target {
					t.Fatalf("accepted GoTo did not move to %q", target)
				}
			},
			"complete": func(t *rapid.T) {
				before := ctrl.Snapshot()
				if err := ctrl.Complete(before.CurrentStageID); err != nil {
					if before.AutoPlaying && errors.Is(err, ErrStageNotAccessible) {
						return
					}
					t.Fatalf("Complete(current): %v", err)
				}
				if next, ok := r.Successor(before.CurrentStageID); ok {
					if err := ctrl.GoTo(next.ID); err != nil {
						t.Fatalf("GoTo(successor) after Complete: %v", err)
					}
				}
			},
			"completeTwice": func(t *rapid.T) {
				before := ctrl.Snapshot()
				if before.AutoPlaying {
					return
				}
				_ = ctrl.Complete(before.CurrentStageID)
				once := ctrl.Snapshot().CompletedStageIDs
				if err := ctrl.GoTo(before.CurrentStageID); err != nil {
					t.Fatalf("revisit completed stage: %v", err)
				}
				_ = ctrl.Complete(before.CurrentStageID)
				twice := ctrl.Snapshot().CompletedStageIDs
				if fmt.Sprint(once) != fmt.Sprint(twice) {
					t.Fatalf("completion not idempotent: %v vs %v", once, twice)
				}
			},
			"startAutoPlay": func(t *rapid.T) {
				err := ctrl.StartAutoPlay()
				if len(r.AutoPlaySequence()) == 0 {
					if !errors.Is(err, ErrNoAutoPlay) {
						t.Fatalf("expected ErrNoAutoPlay, got %v", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("StartAutoPlay: %v", err)
				}
				if clk.Pending() > 1 {
					t.Fatalf("more than one dwell timer armed: %d", clk.Pending())
				}
			},
			"stopAutoPlay": func(t *rapid.T) {
				ctrl.StopAutoPlay()
				frozen := ctrl.Snapshot()
				clk.Advance(time.Hour)
				if !frozen.SameState(ctrl.Snapshot()) {
					t.Fatalf("state moved after StopAutoPlay")
				}
			},
			"advance": func(t *rapid.T) {
				clk.Advance(time.Duration(rapid.IntRange(0, 600).Draw(t, "ms")) * time.Millisecond)
				if clk.Pending() > 1 {
					t.Fatalf("more than one dwell timer armed: %d", clk.Pending())
				}
			},
			"reset": func(t *rapid.T) {
				ctrl.Reset()
				fresh, _ := newPropertyController(t, r)
				if !fresh.Snapshot().SameState(ctrl.Snapshot()) {
					t.Fatalf("reset did not restore the initial snapshot")
				}
				if clk.Pending() != 0 {
					t.Fatalf("reset left %d timers", clk.Pending())
				}
			},
			"": func(t *rapid.T) {
				checkInvariants(t, r, ctrl.Snapshot())
			},
		})
	})
}

func TestPropertyAutoPlayRunsToCompletion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := genRegistry(t)
		seq := r.AutoPlaySequence()
		if len(seq) == 0 {
			return
		}
		ctrl, clk := newPropertyController(t, r)
		defer ctrl.Close()

		var total time.Duration
		for _, id := range seq {
			d, _ := r.Lookup(id)
			total += d.Dwell
		}

		if err := ctrl.StartAutoPlay(); err != nil {
			t.Fatalf("StartAutoPlay: %v", err)
		}
		clk.Advance(total)

		snap := ctrl.Snapshot()
		if snap.AutoPlaying {
			t.Fatalf("still auto-playing after %s", total)
		}
		if snap.CurrentStageID != seq[len(seq)-1] {
			t.Fatalf("expected last stage %q, got %q", seq[len(seq)-1], snap.CurrentStageID)
		}
		for _, id := range seq {
			if !snap.IsCompleted(id) {
				t.Fatalf("auto-play stage %q not completed", id)
			}
		}
	})
}
