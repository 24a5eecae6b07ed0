package testutil

import (
	"sync"
	"time"
)

// MemoryStore keeps best times and completion flags in memory. Setting Err
// makes every call fail with it.
type MemoryStore struct {
	Err       error
	best      map[string]time.Duration
	completed map[string]bool
	mu        sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		best:      make(map[string]time.Duration),
		completed: make(map[string]bool),
	}
}

func memKey(participant, levelID string) string {
	return participant + "/" + levelID
}

func (m *MemoryStore) BestTime(participant, levelID string) (time.Duration, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, false, m.Err
	}

	d, ok := m.best[memKey(participant, levelID)]

	return d, ok, nil
}

func (m *MemoryStore) SetBestTime(participant, levelID string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.best[memKey(participant, levelID)] = d

	return nil
}

func (m *MemoryStore) MarkCompleted(participant, levelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.completed[memKey(participant, levelID)] = true

	return nil
}

// Completed reports whether MarkCompleted succeeded for the level.
func (m *MemoryStore) Completed(participant, levelID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.completed[memKey(participant, levelID)]
}
