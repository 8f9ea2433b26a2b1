package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-instance
// development runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, sid, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.sessions[sid]
	if !ok {
		return nil, false, nil
	}
	data, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.sessions[sid]
	if !ok {
		entries = make(map[string][]byte)
		s.sessions[sid] = entries
	}
	data := make([]byte, len(value))
	copy(data, value)
	entries[key] = data
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries, ok := s.sessions[sid]; ok {
		delete(entries, key)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid)
	return nil
}
