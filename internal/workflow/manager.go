// File path: internal/workflow/manager.go

// Package workflow orchestrates the edit pipeline around a stage's
// generated code: extract labels from edited source, persist the new
// authoritative state, unify global labels across the project, and
// record the change in the version ledger.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/controlforge/stlab/internal/common"
	"github.com/controlforge/stlab/internal/labels"
	"github.com/controlforge/stlab/internal/ledger"
	"github.com/controlforge/stlab/internal/stlang"
)

// ErrStageNotFound is returned when a stage has no persisted code to
// operate on.
var ErrStageNotFound = errors.New("workflow: stage code not found")

// StageCode is the authoritative parsed state of one stage.
type StageCode struct {
	StageID   string         `json:"stage_id"`
	ProjectID string         `json:"project_id"`
	Globals   []stlang.Label `json:"global_labels"`
	Locals    []stlang.Label `json:"local_labels"`
	Body      string         `json:"program_body"`
}

// Program views the stage code as a ParsedProgram.
func (c *StageCode) Program() stlang.ParsedProgram {
	return stlang.ParsedProgram{Globals: c.Globals, Locals: c.Locals, Body: c.Body}
}

// Store is the persistence port for stage code state.
type Store interface {
	StageCode(ctx context.Context, stageID string) (*StageCode, error)
	SaveStageCode(ctx context.Context, code *StageCode) error
}

// ActorResolver maps an opaque actor identifier to a display name for
// report rendering.
type ActorResolver func(actorID string) string

// EditResult reports the outcome of applying an edited source text.
type EditResult struct {
	Entry        *ledger.Entry        `json:"entry"`
	Program      stlang.ParsedProgram `json:"program"`
	Skipped      []stlang.Diagnostic  `json:"skipped,omitempty"`
	GlobalLabels []stlang.Label       `json:"global_labels"`
}

// Manager wires the label model, the project-wide synchronizer and
// the version ledger behind one API.
type Manager struct {
	store  Store
	sync   *labels.Synchronizer
	ledger *ledger.Ledger
	logger *slog.Logger
}

func NewManager(store Store, sync *labels.Synchronizer, led *ledger.Ledger) *Manager {
	return &Manager{store: store, sync: sync, ledger: led, logger: common.Logger()}
}

// EditCode applies a user edit of the stage's full ST source: the
// edited text is re-extracted into labels and body, persisted as the
// new authoritative state, global labels are unified across the
// project, and an edit_logic entry is appended with the diff between
// the previous and new source.
func (m *Manager) EditCode(ctx context.Context, stageID, actorID, source string) (*EditResult, error) {
	current, err := m.store.StageCode(ctx, stageID)
	if err != nil {
		return nil, err
	}
	oldText := stlang.Format(current.Program())

	extraction := stlang.Extract(source)
	if len(extraction.Skipped) > 0 {
		m.logger.Debug("workflow: declaration lines skipped",
			"stage", stageID, "count", len(extraction.Skipped))
	}
	updated := &StageCode{
		StageID:   stageID,
		ProjectID: current.ProjectID,
		Globals:   extraction.Program.Globals,
		Locals:    extraction.Program.Locals,
		Body:      extraction.Program.Body,
	}
	if err := m.store.SaveStageCode(ctx, updated); err != nil {
		return nil, fmt.Errorf("save stage code: %w", err)
	}
	unified, err := m.sync.EnsureCommon(ctx, current.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("synchronize global labels: %w", err)
	}
	entry, err := m.ledger.Record(ctx, ledger.Request{
		StageID: stageID,
		ActorID: actorID,
		Action:  ledger.ActionEditLogic,
		OldText: oldText,
		NewText: source,
		Metadata: map[string]any{
			"description":         "code manually edited",
			"global_labels_count": len(extraction.Program.Globals),
			"local_labels_count":  len(extraction.Program.Locals),
		},
	})
	if err != nil {
		return nil, err
	}
	return &EditResult{
		Entry:        entry,
		Program:      extraction.Program,
		Skipped:      extraction.Skipped,
		GlobalLabels: unified,
	}, nil
}

// EditLogic records an edit of the stage's natural-language logic
// text. The logic text itself is owned by an external collaborator;
// only the change event and its diff are tracked here.
func (m *Manager) EditLogic(ctx context.Context, stageID, actorID, oldLogic, newLogic string) (*ledger.Entry, error) {
	return m.ledger.Record(ctx, ledger.Request{
		StageID: stageID,
		ActorID: actorID,
		Action:  ledger.ActionEditLogic,
		OldText: oldLogic,
		NewText: newLogic,
		Metadata: map[string]any{
			"description": "logic edited",
		},
	})
}

// Validate records a validation run against the stage's current
// state. Validation changes no text, so the diff is empty.
func (m *Manager) Validate(ctx context.Context, stageID, actorID string, passed bool, issues []string) (*ledger.Entry, error) {
	current, err := m.store.StageCode(ctx, stageID)
	if err != nil {
		return nil, err
	}
	text := stlang.Format(current.Program())
	metadata := map[string]any{
		"description":       "validation run",
		"validation_passed": passed,
	}
	if len(issues) > 0 {
		metadata["issues"] = issues
	}
	return m.ledger.Record(ctx, ledger.Request{
		StageID:  stageID,
		ActorID:  actorID,
		Action:   ledger.ActionValidate,
		OldText:  text,
		NewText:  text,
		Metadata: metadata,
	})
}

// RecordGeneration persists a freshly generated program for the stage
// and appends a generate_code entry diffing the program bodies.
func (m *Manager) RecordGeneration(ctx context.Context, stageID, actorID string, program stlang.ParsedProgram) (*ledger.Entry, error) {
	current, err := m.store.StageCode(ctx, stageID)
	if err != nil {
		return nil, err
	}
	updated := &StageCode{
		StageID:   stageID,
		ProjectID: current.ProjectID,
		Globals:   program.Globals,
		Locals:    program.Locals,
		Body:      program.Body,
	}
	if err := m.store.SaveStageCode(ctx, updated); err != nil {
		return nil, fmt.Errorf("save stage code: %w", err)
	}
	if _, err := m.sync.EnsureCommon(ctx, current.ProjectID); err != nil {
		return nil, fmt.Errorf("synchronize global labels: %w", err)
	}
	return m.ledger.Record(ctx, ledger.Request{
		StageID: stageID,
		ActorID: actorID,
		Action:  ledger.ActionGenerateCode,
		OldText: current.Body,
		NewText: program.Body,
		Metadata: map[string]any{
			"description": "code generated",
		},
	})
}

// History returns the stage's ledger entries in insertion order.
func (m *Manager) History(ctx context.Context, stageID string) ([]ledger.Entry, error) {
	return m.ledger.History(ctx, stageID)
}

// HistoryRow is a ledger entry augmented with the acting user's
// display name for report rendering.
type HistoryRow struct {
	ledger.Entry
	ActorName string `json:"actor_name"`
}

// HistoryWithActors resolves actor display names alongside each
// entry. A nil resolver leaves names empty.
func (m *Manager) HistoryWithActors(ctx context.Context, stageID string, resolve ActorResolver) ([]HistoryRow, error) {
	entries, err := m.ledger.History(ctx, stageID)
	if err != nil {
		return nil, err
	}
	rows := make([]HistoryRow, 0, len(entries))
	for _, entry := range entries {
		row := HistoryRow{Entry: entry}
		if resolve != nil {
			row.ActorName = resolve(entry.ActorID)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SummaryItem is one condensed history line.
type SummaryItem struct {
	Version   string         `json:"version"`
	Action    ledger.Action  `json:"action"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Summary condenses a stage's version state for display.
type Summary struct {
	CurrentVersion string        `json:"current_version"`
	LastAction     ledger.Action `json:"last_action,omitempty"`
	TotalVersions  int           `json:"total_versions"`
	History        []SummaryItem `json:"history"`
}

const summaryHistoryLimit = 10

// Summary reports the stage's current version plus its most recent
// entries, newest first.
func (m *Manager) Summary(ctx context.Context, stageID string) (*Summary, error) {
	current, err := m.ledger.Current(ctx, stageID)
	if err != nil {
		return nil, err
	}
	entries, err := m.ledger.History(ctx, stageID)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		CurrentVersion: current.String(),
		TotalVersions:  len(entries),
	}
	if len(entries) > 0 {
		summary.LastAction = entries[len(entries)-1].ActionType
	}
	for i := len(entries) - 1; i >= 0 && len(summary.History) < summaryHistoryLimit; i-- {
		entry := entries[i]
		summary.History = append(summary.History, SummaryItem{
			Version:   entry.VersionNumber,
			Action:    entry.ActionType,
			Timestamp: entry.Timestamp.Format(time.RFC3339),
			Metadata:  entry.Metadata,
		})
	}
	return summary, nil
}
