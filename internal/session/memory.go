package session

import (
	"context"
	"sync"

	"vocabbot/internal/domain"
)

type entry struct {
	state   domain.StateTag
	payload domain.Payload
}

// MemoryStore keeps sessions in process memory. Everything is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*entry)}
}

// State returns the user's state, idle if none was set
func (m *MemoryStore) State(_ context.Context, userID int64) (domain.StateTag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[userID]
	if !ok || e.state == "" {
		return domain.StateIdle, nil
	}
	return e.state, nil
}

// SetState sets the user's state, keeping the payload
func (m *MemoryStore) SetState(_ context.Context, userID int64, state domain.StateTag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.get(userID).state = state
	return nil
}

// Payload returns the user's payload
func (m *MemoryStore) Payload(_ context.Context, userID int64) (domain.Payload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[userID]
	if !ok {
		return domain.Payload{}, nil
	}
	return e.payload, nil
}

// MergePayload overwrites the parts set in part
func (m *MemoryStore) MergePayload(_ context.Context, userID int64, part domain.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.get(userID).payload.Merge(part)
	return nil
}

// Clear forgets the user's session
func (m *MemoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// get must be called with the write lock held
func (m *MemoryStore) get(userID int64) *entry {
	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{state: domain.StateIdle}
		m.sessions[userID] = e
	}
	return e
}
