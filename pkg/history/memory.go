package history

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in memory. It backs the history journal when
// persistence is disabled and is used in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*RunRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*RunRecord),
	}
}

// Record stores a copy of rec.
func (s *MemoryStore) Record(ctx context.Context, rec *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *rec
	s.records[rec.RunID] = &recordCopy
	return nil
}

// Get returns a copy of the run with runID.
func (s *MemoryStore) Get(ctx context.Context, runID string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[runID]
	if !ok {
		return nil, ErrNotFound
	}
	recordCopy := *rec
	return &recordCopy, nil
}

// List returns runs matching q, newest first.
func (s *MemoryStore) List(ctx context.Context, q Query) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*RunRecord, 0, len(s.records))
	for _, rec := range s.records {
		if !q.Since.IsZero() && rec.StartedAt.Before(q.Since) {
			continue
		}
		if q.FailuresOnly && rec.Result != ResultPartial {
			continue
		}
		recordCopy := *rec
		results = append(results, &recordCopy)
	}

	sortNewestFirst(results)

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// Prune keeps the newest keep runs.
func (s *MemoryStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*RunRecord, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	sortNewestFirst(all)

	var deleted int64
	for _, rec := range all[min(keep, len(all)):] {
		delete(s.records, rec.RunID)
		deleted++
	}
	return deleted, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// sortNewestFirst orders by start time descending, then RunID for ties.
func sortNewestFirst(records []*RunRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].StartedAt.After(records[j].StartedAt)
		}
		return records[i].RunID > records[j].RunID
	})
}
