package quota

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{counts: make(map[string]int)}
}

func usageKey(feature Feature, day string) string {
	return fmt.Sprintf("%s_usage_%s", feature, day)
}

func (m *MemStore) Usage(_ context.Context, feature Feature, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[usageKey(feature, day)], nil
}

func (m *MemStore) SetUsage(_ context.Context, feature Feature, day string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[usageKey(feature, day)] = count
	return nil
}
