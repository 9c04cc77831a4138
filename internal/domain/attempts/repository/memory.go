package repository

import (
	"context"
	"sync"
)

// MemoryStore — in-memory реализация AttemptStore для тестов,
// не требующая поднятого Redis.
type MemoryStore struct {
	mu        sync.Mutex
	counts    map[string]int
	completed map[string]map[string]struct{}
	roles     map[string]string
	maxTries  map[string]int
}

var _ AttemptStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:    make(map[string]int),
		completed: make(map[string]map[string]struct{}),
		roles:     make(map[string]string),
		maxTries:  make(map[string]int),
	}
}

func (m *MemoryStore) GetAttemptCount(_ context.Context, guildID, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[attemptKey(guildID, userID)], nil
}

func (m *MemoryStore) IncrementAttemptCount(_ context.Context, guildID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[attemptKey(guildID, userID)]++
	return nil
}

func (m *MemoryStore) IsCompleted(_ context.Context, guildID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.completed[guildID][userID]
	return ok, nil
}

func (m *MemoryStore) MarkCompleted(_ context.Context, guildID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completed[guildID] == nil {
		m.completed[guildID] = make(map[string]struct{})
	}
	m.completed[guildID][userID] = struct{}{}
	delete(m.counts, attemptKey(guildID, userID))
	return nil
}

func (m *MemoryStore) GetMaxTries(_ context.Context, guildID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.maxTries[guildID]; ok {
		return n, nil
	}
	m.maxTries[guildID] = DefaultMaxTries
	return DefaultMaxTries, nil
}

func (m *MemoryStore) SetMaxTries(_ context.Context, guildID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxTries[guildID] = n
	return nil
}

func (m *MemoryStore) GetRewardRole(_ context.Context, guildID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[guildID], nil
}

func (m *MemoryStore) SetRewardRole(_ context.Context, guildID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[guildID] = roleID
	return nil
}

func (m *MemoryStore) ResetUser(_ context.Context, guildID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, attemptKey(guildID, userID))
	delete(m.completed[guildID], userID)
	return nil
}
