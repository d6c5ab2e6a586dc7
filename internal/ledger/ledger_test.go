// File path: internal/ledger/ledger_test.go
package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFirstEdit(t *testing.T) {
	store := NewMemoryStore()
	l := New(store)

	entry, err := l.Record(context.Background(), Request{
		StageID: "stage-1",
		ActorID: "actor-1",
		Action:  ActionEditLogic,
		OldText: "X;",
		NewText: "Y;",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "1.0.1", entry.VersionNumber)
	assert.Equal(t, ActionEditLogic, entry.ActionType)
	assert.NotEmpty(t, entry.Diff)
	assert.False(t, entry.Timestamp.IsZero())
	assert.Equal(t, "1.0.0", entry.Metadata["previous_version"])
	assert.Equal(t, "1.0.1", entry.Metadata["new_version"])
	assert.Equal(t, 0, entry.Metadata["validation_count"])
}

func TestRecordVersionSequence(t *testing.T) {
	store := NewMemoryStore()
	l := New(store)
	ctx := context.Background()

	steps := []struct {
		action Action
		want   string
	}{
		{ActionEditLogic, "1.0.1"},
		{ActionEditLogic, "1.0.2"},
		{ActionSafetyCheck, "1.0.3"},
		{ActionValidate, "1.1.0"},
		{ActionGenerateCode, "1.2.0"},
		{ActionEditLogic, "1.2.1"},
	}
	for i, step := range steps {
		entry, err := l.Record(ctx, Request{
			StageID: "stage-seq",
			ActorID: "actor",
			Action:  step.action,
			OldText: fmt.Sprintf("v%d", i),
			NewText: fmt.Sprintf("v%d", i+1),
		})
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.want, entry.VersionNumber, "step %d", i)
	}

	current, err := l.Current(ctx, "stage-seq")
	require.NoError(t, err)
	assert.Equal(t, "1.2.1", current.String())
}

func TestRecordValidationCountMetadata(t *testing.T) {
	store := NewMemoryStore()
	l := New(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := l.Record(ctx, Request{StageID: "s", ActorID: "a", Action: ActionValidate})
		require.NoError(t, err)
	}
	entry, err := l.Record(ctx, Request{StageID: "s", ActorID: "a", Action: ActionEditLogic})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Metadata["validation_count"])
}

func TestRecordCallerMetadataMerged(t *testing.T) {
	l := New(NewMemoryStore())
	entry, err := l.Record(context.Background(), Request{
		StageID:  "s",
		ActorID:  "a",
		Action:   ActionEditLogic,
		Metadata: map[string]any{"issues": []string{"none"}, "action": "override-ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"none"}, entry.Metadata["issues"])
	// Caller keys win over derived keys, matching a plain map merge.
	assert.Equal(t, "override-ignored", entry.Metadata["action"])
}

func TestRecordUnknownActionRejectedBeforeStore(t *testing.T) {
	store := NewMemoryStore()
	l := New(store)
	_, err := l.Record(context.Background(), Request{StageID: "s", ActorID: "a", Action: Action("deploy")})
	require.ErrorIs(t, err, ErrUnknownAction)

	entries, err := store.Entries(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordUnparsableStoredVersionFallsBackToSeed(t *testing.T) {
	store := NewMemoryStore()
	store.SetVersion("s", "not-a-version")
	l := New(store)

	entry, err := l.Record(context.Background(), Request{StageID: "s", ActorID: "a", Action: ActionEditLogic})
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", entry.VersionNumber)
}

func TestHistoryPreservesInsertionOrder(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()
	for _, action := range []Action{ActionEditLogic, ActionValidate, ActionEditLogic} {
		_, err := l.Record(ctx, Request{StageID: "s", ActorID: "a", Action: action})
		require.NoError(t, err)
	}
	entries, err := l.History(ctx, "s")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "1.0.1", entries[0].VersionNumber)
	assert.Equal(t, "1.1.0", entries[1].VersionNumber)
	assert.Equal(t, "1.1.1", entries[2].VersionNumber)
}

func TestAppendConflictSurfaced(t *testing.T) {
	store := NewMemoryStore()
	store.SetVersion("s", "1.0.0")

	entry := &Entry{ID: "e", StageID: "s", VersionNumber: "1.0.1", ActionType: ActionEditLogic}
	err := store.AppendEntry(context.Background(), entry, "0.9.9")
	require.ErrorIs(t, err, ErrConflict)
}

func TestConcurrentEditsOneStageGetDistinctVersions(t *testing.T) {
	store := NewMemoryStore()
	l := New(store)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := l.Record(ctx, Request{
				StageID: "shared",
				ActorID: fmt.Sprintf("actor-%d", i),
				Action:  ActionEditLogic,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := l.History(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, entries, workers)

	seen := map[string]bool{}
	for _, entry := range entries {
		assert.False(t, seen[entry.VersionNumber], "duplicate version %s", entry.VersionNumber)
		seen[entry.VersionNumber] = true
	}
	current, err := l.Current(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("1.0.%d", workers), current.String())
}

func TestCurrentSeedWhenEmpty(t *testing.T) {
	l := New(NewMemoryStore())
	current, err := l.Current(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, Seed, current)
}
