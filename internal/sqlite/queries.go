// File path: internal/sqlite/queries.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/controlforge/stlab/internal/labels"
	"github.com/controlforge/stlab/internal/ledger"
	"github.com/controlforge/stlab/internal/stlang"
	"github.com/controlforge/stlab/internal/workflow"
)

// EnsureStage creates the stage row (with the seed version) and an
// empty generated-code row if they do not exist yet.
func (s *Store) EnsureStage(ctx context.Context, stageID, projectID, name string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	stageID = strings.TrimSpace(stageID)
	if stageID == "" {
		return errors.New("stage id required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stages(id, project_id, name, version_number, created_at)
                         VALUES(?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			stageID, projectID, name, ledger.Seed.String(), now); err != nil {
			return fmt.Errorf("insert stage: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO generated_code(stage_id, project_id, updated_at)
                         VALUES(?, ?, ?) ON CONFLICT(stage_id) DO NOTHING`,
			stageID, projectID, now); err != nil {
			return fmt.Errorf("insert generated code: %w", err)
		}
		return nil
	})
}

// StageCode returns the authoritative parsed state for a stage.
func (s *Store) StageCode(ctx context.Context, stageID string) (*workflow.StageCode, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var row CodeRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM generated_code WHERE stage_id = ?`, stageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, workflow.ErrStageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select generated code: %w", err)
	}
	return codeRowToStageCode(row)
}

// SaveStageCode replaces the stage's generated-code state.
func (s *Store) SaveStageCode(ctx context.Context, code *workflow.StageCode) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	globals, err := encodeLabels(code.Globals)
	if err != nil {
		return err
	}
	locals, err := encodeLabels(code.Locals)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO generated_code(stage_id, project_id, program_body, global_labels, local_labels, updated_at)
                 VALUES(?, ?, ?, ?, ?, ?)
                 ON CONFLICT(stage_id) DO UPDATE SET
                         project_id = excluded.project_id,
                         program_body = excluded.program_body,
                         global_labels = excluded.global_labels,
                         local_labels = excluded.local_labels,
                         updated_at = excluded.updated_at`,
		code.StageID, code.ProjectID, code.Body, globals, locals, now)
	if err != nil {
		return fmt.Errorf("upsert generated code: %w", err)
	}
	return nil
}

// StageGlobals returns each stage's global labels for a project.
func (s *Store) StageGlobals(ctx context.Context, projectID string) ([]labels.StageGlobals, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	rows := []CodeRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM generated_code WHERE project_id = ? ORDER BY stage_id`, projectID); err != nil {
		return nil, fmt.Errorf("select project code: %w", err)
	}
	out := make([]labels.StageGlobals, 0, len(rows))
	for _, row := range rows {
		decoded, err := decodeLabels(row.GlobalLabels)
		if err != nil {
			return nil, err
		}
		out = append(out, labels.StageGlobals{StageID: row.StageID, Labels: decoded})
	}
	return out, nil
}

// ReplaceGlobals overwrites a stage's global labels.
func (s *Store) ReplaceGlobals(ctx context.Context, stageID string, unified []stlang.Label) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	encoded, err := encodeLabels(unified)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`UPDATE generated_code SET global_labels = ?, updated_at = ? WHERE stage_id = ?`,
		encoded, now, stageID)
	if err != nil {
		return fmt.Errorf("update global labels: %w", err)
	}
	return nil
}

// CurrentVersion returns the stage's recorded version, or the empty
// string when the stage is unknown.
func (s *Store) CurrentVersion(ctx context.Context, stageID string) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("sqlite store not initialised")
	}
	var version string
	err := s.db.GetContext(ctx, &version,
		`SELECT version_number FROM stages WHERE id = ?`, stageID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select stage version: %w", err)
	}
	return version, nil
}

// AppendEntry atomically advances the stage version and inserts the
// history row. The stage version must still equal expected (empty
// when the stage row did not exist at read time); otherwise
// ledger.ErrConflict is returned and nothing is written.
func (s *Store) AppendEntry(ctx context.Context, entry *ledger.Entry, expected string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	row, err := entryToVersionRow(entry)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if expected == "" {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO stages(id, project_id, name, version_number, last_action, last_action_at, created_at)
                                 VALUES(?, '', '', ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
				entry.StageID, entry.VersionNumber, string(entry.ActionType), now, now)
			if err != nil {
				return fmt.Errorf("insert stage: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return ledger.ErrConflict
			}
		} else {
			res, err := tx.ExecContext(ctx,
				`UPDATE stages SET version_number = ?, last_action = ?, last_action_at = ?
                                 WHERE id = ? AND version_number = ?`,
				entry.VersionNumber, string(entry.ActionType), now, entry.StageID, expected)
			if err != nil {
				return fmt.Errorf("update stage version: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return ledger.ErrConflict
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO version_history(id, stage_id, actor_id, version_number, action_type, old_text, new_text, diff, metadata, created_at)
                         VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, row.StageID, row.ActorID, row.VersionNumber, row.ActionType,
			row.OldText, row.NewText, row.Diff, row.Metadata, row.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return ledger.ErrConflict
			}
			return fmt.Errorf("insert version history: %w", err)
		}
		return nil
	})
}

// Entries returns a stage's version history in insertion order.
func (s *Store) Entries(ctx context.Context, stageID string) ([]ledger.Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	rows := []VersionRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM version_history WHERE stage_id = ? ORDER BY seq`, stageID); err != nil {
		return nil, fmt.Errorf("select version history: %w", err)
	}
	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := versionRowToEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// CountAction counts a stage's history entries with the given action.
func (s *Store) CountAction(ctx context.Context, stageID string, action ledger.Action) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("sqlite store not initialised")
	}
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM version_history WHERE stage_id = ? AND action_type = ?`,
		stageID, string(action)); err != nil {
		return 0, fmt.Errorf("count version history: %w", err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
