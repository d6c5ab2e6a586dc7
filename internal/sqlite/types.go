// File path: internal/sqlite/types.go
package sqlite

// StageRow represents a stage metadata row. Timestamps are stored as
// RFC 3339 strings to keep scanning portable across drivers.
type StageRow struct {
	ID            string `db:"id"`
	ProjectID     string `db:"project_id"`
	Name          string `db:"name"`
	VersionNumber string `db:"version_number"`
	LastAction    string `db:"last_action"`
	LastActionAt  string `db:"last_action_at"`
	CreatedAt     string `db:"created_at"`
}

// CodeRow represents the authoritative generated-code state for a
// stage. Label lists are stored as JSON arrays.
type CodeRow struct {
	StageID      string `db:"stage_id"`
	ProjectID    string `db:"project_id"`
	ProgramBody  string `db:"program_body"`
	GlobalLabels string `db:"global_labels"`
	LocalLabels  string `db:"local_labels"`
	UpdatedAt    string `db:"updated_at"`
}

// VersionRow represents one append-only version history entry. Seq is
// the insertion-order key.
type VersionRow struct {
	Seq           int64  `db:"seq"`
	ID            string `db:"id"`
	StageID       string `db:"stage_id"`
	ActorID       string `db:"actor_id"`
	VersionNumber string `db:"version_number"`
	ActionType    string `db:"action_type"`
	OldText       string `db:"old_text"`
	NewText       string `db:"new_text"`
	Diff          string `db:"diff"`
	Metadata      string `db:"metadata"`
	CreatedAt     string `db:"created_at"`
}
