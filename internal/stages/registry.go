package stages

import (
	"errors"
	"fmt"
	"strings"
)

// Registry errors.
var (
	ErrUnknownStage  = errors.New("unknown stage")
	ErrEmptyRegistry = errors.New("registry has no stages")
)

// Registry is the canonical, ordered catalogue of stages plus the auto-play
// sub-sequence. It is safe for concurrent use because it never changes after
// NewRegistry returns.
type Registry struct {
	name        string
	description string
	stages      []Descriptor
	index       map[string]int
	autoPlay    []string
}

// RegistryOption configures optional registry metadata.
type RegistryOption func(*Registry)

// WithDescription sets the text returned by Description.
func WithDescription(description string) RegistryOption {
	return func(r *Registry) {
		r.description = strings.TrimSpace(description)
	}
}

// NewRegistry validates the descriptors and auto-play ids and builds a
// registry. Descriptor order is taken from slice position.
func NewRegistry(name string, descriptors []Descriptor, autoPlay []string, opts ...RegistryOption) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		name:   strings.TrimSpace(name),
		stages: make([]Descriptor, len(descriptors)),
		index:  make(map[string]int, len(descriptors)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, d := range descriptors {
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			return nil, fmt.Errorf("stage %d: id is required", i+1)
		}
		if _, exists := r.index[d.ID]; exists {
			return nil, fmt.Errorf("duplicate stage id %q", d.ID)
		}
		if d.Dwell < 0 {
			return nil, fmt.Errorf("stage %q: dwell must not be negative", d.ID)
		}
		d.Order = i
		r.stages[i] = d
		r.index[d.ID] = i
	}

	seen := make(map[string]struct{}, len(autoPlay))
	r.autoPlay = make([]string, 0, len(autoPlay))
	for i, raw := range autoPlay {
		id := strings.TrimSpace(raw)
		pos, ok := r.index[id]
		if !ok {
			return nil, fmt.Errorf("autoplay entry %d: %w: %q", i+1, ErrUnknownStage, id)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("autoplay entry %d: duplicate stage %q", i+1, id)
		}
		seen[id] = struct{}{}
		if i < len(autoPlay)-1 && r.stages[pos].Terminal() {
			return nil, fmt.Errorf("autoplay stage %q has no dwell but is not the last entry", id)
		}
		r.autoPlay = append(r.autoPlay, id)
	}

	return r, nil
}

// Name returns the registry name.
func (r *Registry) Name() string { return r.name }

// Description returns the catalogue description, if any.
func (r *Registry) Description() string { return r.description }

// Len returns the number of stages.
func (r *Registry) Len() int { return len(r.stages) }

// Stages returns a copy of the ordered descriptors.
func (r *Registry) Stages() []Descriptor {
	out := make([]Descriptor, len(r.stages))
	copy(out, r.stages)
	return out
}

// IDs returns the stage ids in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.stages))
	for i, d := range r.stages {
		ids[i] = d.ID
	}
	return ids
}

// IndexOf returns the position of id or ErrUnknownStage.
func (r *Registry) IndexOf(id string) (int, error) {
	pos, ok := r.index[id]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	return pos, nil
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id string) (Descriptor, error) {
	pos, err := r.IndexOf(id)
	if err != nil {
		return Descriptor{}, err
	}
	return r.stages[pos], nil
}

// At returns the descriptor at position i. It panics when i is out of range.
func (r *Registry) At(i int) Descriptor {
	return r.stages[i]
}

// First returns the first stage.
func (r *Registry) First() Descriptor {
	return r.stages[0]
}

// Successor returns the stage after id in registry order.
func (r *Registry) Successor(id string) (Descriptor, bool) {
	pos, ok := r.index[id]
	if !ok || pos+1 >= len(r.stages) {
		return Descriptor{}, false
	}
	return r.stages[pos+1], true
}

// Predecessor returns the stage before id in registry order.
func (r *Registry) Predecessor(id string) (Descriptor, bool) {
	pos, ok := r.index[id]
	if !ok || pos == 0 {
		return Descriptor{}, false
	}
	return r.stages[pos-1], true
}

// AutoPlaySequence returns a copy of the auto-play stage ids.
func (r *Registry) AutoPlaySequence() []string {
	out := make([]string, len(r.autoPlay))
	copy(out, r.autoPlay)
	return out
}

// InAutoPlay reports whether id is part of the auto-play sequence.
func (r *Registry) InAutoPlay(id string) bool {
	for _, candidate := range r.autoPlay {
		if candidate == id {
			return true
		}
	}
	return false
}
