// File path: internal/sqlite/mapper.go
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/controlforge/stlab/internal/ledger"
	"github.com/controlforge/stlab/internal/stlang"
	"github.com/controlforge/stlab/internal/workflow"
)

func encodeLabels(labels []stlang.Label) (string, error) {
	if labels == nil {
		labels = []stlang.Label{}
	}
	data, err := json.Marshal(labels)
	if err != nil {
		return "", fmt.Errorf("encode labels: %w", err)
	}
	return string(data), nil
}

func decodeLabels(data string) ([]stlang.Label, error) {
	if data == "" {
		return nil, nil
	}
	var labels []stlang.Label
	if err := json.Unmarshal([]byte(data), &labels); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, nil
	}
	return labels, nil
}

func codeRowToStageCode(row CodeRow) (*workflow.StageCode, error) {
	globals, err := decodeLabels(row.GlobalLabels)
	if err != nil {
		return nil, err
	}
	locals, err := decodeLabels(row.LocalLabels)
	if err != nil {
		return nil, err
	}
	return &workflow.StageCode{
		StageID:   row.StageID,
		ProjectID: row.ProjectID,
		Globals:   globals,
		Locals:    locals,
		Body:      row.ProgramBody,
	}, nil
}

func entryToVersionRow(entry *ledger.Entry) (VersionRow, error) {
	metadata := "{}"
	if entry.Metadata != nil {
		data, err := json.Marshal(entry.Metadata)
		if err != nil {
			return VersionRow{}, fmt.Errorf("encode entry metadata: %w", err)
		}
		metadata = string(data)
	}
	return VersionRow{
		ID:            entry.ID,
		StageID:       entry.StageID,
		ActorID:       entry.ActorID,
		VersionNumber: entry.VersionNumber,
		ActionType:    string(entry.ActionType),
		OldText:       entry.OldText,
		NewText:       entry.NewText,
		Diff:          entry.Diff,
		Metadata:      metadata,
		CreatedAt:     entry.Timestamp.UTC().Format(time.RFC3339Nano),
	}, nil
}

func versionRowToEntry(row VersionRow) (ledger.Entry, error) {
	entry := ledger.Entry{
		ID:            row.ID,
		StageID:       row.StageID,
		ActorID:       row.ActorID,
		VersionNumber: row.VersionNumber,
		ActionType:    ledger.Action(row.ActionType),
		OldText:       row.OldText,
		NewText:       row.NewText,
		Diff:          row.Diff,
	}
	if row.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
		if err != nil {
			return ledger.Entry{}, fmt.Errorf("parse entry timestamp: %w", err)
		}
		entry.Timestamp = ts
	}
	if row.Metadata != "" && row.Metadata != "{}" {
		if err := json.Unmarshal([]byte(row.Metadata), &entry.Metadata); err != nil {
			return ledger.Entry{}, fmt.Errorf("decode entry metadata: %w", err)
		}
	}
	return entry, nil
}
