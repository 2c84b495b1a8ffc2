package results

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	cfg storeConfig

	mu      sync.RWMutex
	records []Result // insertion order; index is the tie-break sequence
}

// NewMemoryStore returns a process-local store. Records are lost on restart.
func NewMemoryStore(opts ...StoreOption) Store {
	return &memoryStore{cfg: newStoreConfig(opts)}
}

func (m *memoryStore) Create(_ context.Context, in Input) (Result, error) {
	r := m.cfg.stamp(in)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return r, nil
}

func (m *memoryStore) FindByAssessmentAndStudent(_ context.Context, assessmentID, studentID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	best := -1
	for i, r := range m.records {
		if r.AssessmentID != assessmentID || r.StudentID != studentID {
			continue
		}
		if best < 0 || newer(r, m.records[best], int64(i), int64(best)) {
			best = i
		}
	}
	if best < 0 {
		return Result{}, ErrNotFound
	}
	return m.records[best], nil
}

func (m *memoryStore) FindByStudent(_ context.Context, studentID string) ([]Result, error) {
	m.mu.RLock()
	out := make([]Result, 0, 4)
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }
