// File path: internal/ledger/memory.go
package ledger

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and embedding
// callers that do not need durable history.
type MemoryStore struct {
	mu       sync.Mutex
	versions map[string]string
	entries  map[string][]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		versions: make(map[string]string),
		entries:  make(map[string][]Entry),
	}
}

func (m *MemoryStore) CurrentVersion(_ context.Context, stageID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[stageID], nil
}

func (m *MemoryStore) AppendEntry(_ context.Context, entry *Entry, expected string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.versions[entry.StageID] != expected {
		return ErrConflict
	}
	m.versions[entry.StageID] = entry.VersionNumber
	m.entries[entry.StageID] = append(m.entries[entry.StageID], *entry)
	return nil
}

func (m *MemoryStore) Entries(_ context.Context, stageID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.entries[stageID]
	out := make([]Entry, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemoryStore) CountAction(_ context.Context, stageID string, action Action) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, entry := range m.entries[stageID] {
		if entry.ActionType == action {
			count++
		}
	}
	return count, nil
}

// SetVersion force-sets a stage version; test helper for simulating
// out-of-band writes.
func (m *MemoryStore) SetVersion(stageID, version string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[stageID] = version
}
