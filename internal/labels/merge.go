// File path: internal/labels/merge.go

// Package labels keeps global labels consistent across every stage of
// a project. Global labels are identified by device address first and
// name second; a label with neither is ignored.
package labels

import (
	"context"
	"log/slog"

	"github.com/controlforge/stlab/internal/common"
	"github.com/controlforge/stlab/internal/stlang"
)

// Merge appends the incoming labels that are not already present in
// existing. A label counts as present when its identifier (device if
// set, else name) or its name is already taken.
func Merge(existing, incoming []stlang.Label) []stlang.Label {
	merged := append([]stlang.Label(nil), existing...)
	devices := make(map[string]bool)
	names := make(map[string]bool)
	for _, label := range existing {
		if label.Device != "" {
			devices[label.Device] = true
		}
		if label.Name != "" {
			names[label.Name] = true
		}
	}
	for _, label := range incoming {
		identifier := label.Device
		if identifier == "" {
			identifier = label.Name
		}
		if identifier == "" || devices[identifier] || names[label.Name] {
			continue
		}
		merged = append(merged, label)
		if label.Device != "" {
			devices[label.Device] = true
		}
		if label.Name != "" {
			names[label.Name] = true
		}
	}
	return merged
}

// Aggregate folds per-stage global label sets into one deduplicated
// list, preserving first-seen order.
func Aggregate(sets ...[]stlang.Label) []stlang.Label {
	var unified []stlang.Label
	for _, set := range sets {
		unified = Merge(unified, set)
	}
	return unified
}

// StageGlobals pairs a stage with its current global labels.
type StageGlobals struct {
	StageID string
	Labels  []stlang.Label
}

// Store is the persistence port for project-wide synchronization.
type Store interface {
	StageGlobals(ctx context.Context, projectID string) ([]StageGlobals, error)
	ReplaceGlobals(ctx context.Context, stageID string, labels []stlang.Label) error
}

// Synchronizer unifies global labels across a project so every stage
// shares the same set. It is meant to run after any stage's code or
// labels change.
type Synchronizer struct {
	store  Store
	logger *slog.Logger
}

func NewSynchronizer(store Store) *Synchronizer {
	return &Synchronizer{store: store, logger: common.Logger()}
}

// EnsureCommon aggregates the global labels of every stage in the
// project and writes the unified set back to each stage, returning
// the unified list.
func (s *Synchronizer) EnsureCommon(ctx context.Context, projectID string) ([]stlang.Label, error) {
	stages, err := s.store.StageGlobals(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sets := make([][]stlang.Label, 0, len(stages))
	for _, stage := range stages {
		sets = append(sets, stage.Labels)
	}
	unified := Aggregate(sets...)
	for _, stage := range stages {
		if err := s.store.ReplaceGlobals(ctx, stage.StageID, unified); err != nil {
			return nil, err
		}
	}
	s.logger.Info("labels: project globals unified",
		"project", projectID, "stages", len(stages), "labels", len(unified))
	return unified, nil
}
