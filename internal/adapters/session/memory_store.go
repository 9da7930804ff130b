package session

import (
	"context"
	"sync"

	"github.com/glucolog/diary-engine/internal/core/services"
)

var _ services.SessionStore = (*MemoryStore)(nil)

// MemoryStore is the single-process fallback used when redis is not
// configured, and the store handlers test against.
type MemoryStore struct {
	store map[string]*services.CaptureSession

	mu sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]*services.CaptureSession),
	}
}

func (s *MemoryStore) Save(ctx context.Context, session *services.CaptureSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[session.ID] = session
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*services.CaptureSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.store[id]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	return session, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.store, id)
	return nil
}
