// File path: internal/ledger/ledger.go

// Package ledger maintains the append-only version history of a
// stage. Every qualifying action (edit, validate, generate) becomes
// an immutable Entry carrying the next semantic version number and a
// unified diff of the change. Appends for one stage are serialized;
// different stages proceed independently.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/controlforge/stlab/internal/common"
	"github.com/controlforge/stlab/internal/lock"
	"github.com/controlforge/stlab/internal/textdiff"
)

// ErrConflict reports that a concurrent append advanced the stage
// version between read and write. It is a consistency fault and is
// always surfaced, never resolved silently.
var ErrConflict = errors.New("ledger: stage version conflict")

// Entry is one immutable row in a stage's version ledger. Field names
// are part of the export contract consumed by report renderers.
type Entry struct {
	ID            string         `json:"id"`
	StageID       string         `json:"stage_id"`
	ActorID       string         `json:"actor_id"`
	VersionNumber string         `json:"version_number"`
	ActionType    Action         `json:"action_type"`
	OldText       string         `json:"old_text"`
	NewText       string         `json:"new_text"`
	Diff          string         `json:"diff"`
	Timestamp     time.Time      `json:"timestamp"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Store is the persistence port for ledger state. AppendEntry must
// atomically verify that the stage version still equals expected (the
// exact string CurrentVersion returned, empty when the stage had
// none) before committing, and return ErrConflict otherwise.
type Store interface {
	CurrentVersion(ctx context.Context, stageID string) (string, error)
	AppendEntry(ctx context.Context, entry *Entry, expected string) error
	Entries(ctx context.Context, stageID string) ([]Entry, error)
	CountAction(ctx context.Context, stageID string, action Action) (int, error)
}

// Request describes one qualifying action to record.
type Request struct {
	StageID  string
	ActorID  string
	Action   Action
	OldText  string
	NewText  string
	Metadata map[string]any
}

// Ledger appends version entries on top of a Store, serializing
// appends per stage so two concurrent actions can never compute the
// same next version.
type Ledger struct {
	store  Store
	locks  *lock.MutexMap
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store) *Ledger {
	return &Ledger{
		store:  store,
		locks:  lock.NewMutexMap(),
		logger: common.Logger(),
		now:    time.Now,
	}
}

// Record appends a new entry for the request's stage and returns it.
// The entry is constructed fully in memory before the append; a
// failed append leaves no partial state behind.
func (l *Ledger) Record(ctx context.Context, req Request) (*Entry, error) {
	if _, err := Seed.Bump(req.Action); err != nil {
		return nil, err
	}

	l.locks.Lock(req.StageID)
	defer l.locks.Unlock(req.StageID)

	current, err := l.store.CurrentVersion(ctx, req.StageID)
	if err != nil {
		return nil, err
	}
	base := Seed
	if current != "" {
		if parsed, perr := ParseVersion(current); perr == nil {
			base = parsed
		} else {
			l.logger.Warn("ledger: unparsable stage version, using seed",
				"stage", req.StageID, "version", current)
		}
	}
	next, err := base.Bump(req.Action)
	if err != nil {
		return nil, err
	}
	validations, err := l.store.CountAction(ctx, req.StageID, ActionValidate)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"action":           string(req.Action),
		"previous_version": base.String(),
		"new_version":      next.String(),
		"validation_count": validations,
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	entry := &Entry{
		ID:            uuid.NewString(),
		StageID:       req.StageID,
		ActorID:       req.ActorID,
		VersionNumber: next.String(),
		ActionType:    req.Action,
		OldText:       req.OldText,
		NewText:       req.NewText,
		Diff:          textdiff.Unified(req.OldText, req.NewText),
		Timestamp:     l.now().UTC(),
		Metadata:      metadata,
	}
	if err := l.store.AppendEntry(ctx, entry, current); err != nil {
		if errors.Is(err, ErrConflict) {
			l.logger.Error("ledger: append conflict",
				"stage", req.StageID, "version", next.String())
		}
		return nil, err
	}
	l.logger.Info("ledger: entry recorded",
		"stage", req.StageID, "action", string(req.Action), "version", next.String())
	return entry, nil
}

// History returns a stage's entries in insertion order.
func (l *Ledger) History(ctx context.Context, stageID string) ([]Entry, error) {
	return l.store.Entries(ctx, stageID)
}

// Current reports the stage's current version, falling back to the
// seed when nothing has been recorded.
func (l *Ledger) Current(ctx context.Context, stageID string) (Version, error) {
	current, err := l.store.CurrentVersion(ctx, stageID)
	if err != nil {
		return Version{}, err
	}
	if current == "" {
		return Seed, nil
	}
	parsed, err := ParseVersion(current)
	if err != nil {
		return Seed, nil
	}
	return parsed, nil
}
