package memory

import (
	"fmt"
	"sync"

	"github.com/sandevgo/verdictbot/internal/core"
)

// Store is the in-memory session container. Sessions live exactly as long
// as their transport connection; nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*core.Session),
	}
}

// Create initializes a session before publishing it, so no lookup can
// observe a half-initialized one. Creation is strict: re-creating a live id
// fails with core.ErrDuplicateSession.
func (s *Store) Create(id string) (*core.Session, error) {
	sess := core.NewSession(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDuplicateSession, id)
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Store) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
	}
	return sess, nil
}

// Delete is a no-op for unknown ids.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
