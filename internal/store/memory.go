package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRunStore is an in-memory RunStore used by tests and by the demo
// when persistence is disabled.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemoryRunStore creates an empty MemoryRunStore.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]Run)}
}

// SaveRun stores a copy of run.
func (s *MemoryRunStore) SaveRun(ctx context.Context, run Run) (string, error) {
	run = prepareRun(run)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		return "", fmt.Errorf("run %s already exists", run.ID)
	}
	s.runs[run.ID] = copyRun(run)
	return run.ID, nil
}

// GetRun returns a copy of the stored run.
func (s *MemoryRunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	out := copyRun(run)
	return &out, nil
}

// ListRuns returns runs newest first.
func (s *MemoryRunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, copyRun(run))
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close is a no-op.
func (s *MemoryRunStore) Close() error {
	return nil
}

func copyRun(run Run) Run {
	trials := make([]TrialRecord, len(run.Trials))
	copy(trials, run.Trials)
	run.Trials = trials
	return run
}

var (
	_ RunStore = (*MemoryRunStore)(nil)
	_ RunStore = (*SQLiteRunStore)(nil)
)
