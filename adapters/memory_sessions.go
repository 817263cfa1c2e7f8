package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/domain/repositories"
)

// MemorySessionRepository is an in-memory SessionRepository for tests and
// single-process deployments without MongoDB.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entities.HideSession
}

// NewMemorySessionRepository creates an empty in-memory session store
func NewMemorySessionRepository() repositories.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]entities.HideSession),
	}
}

// Create implements repositories.SessionRepository
func (r *MemorySessionRepository) Create(ctx context.Context, session *entities.HideSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// GetByID implements repositories.SessionRepository
func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (*entities.HideSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// Update implements repositories.SessionRepository
func (r *MemorySessionRepository) Update(ctx context.Context, session *entities.HideSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return errors.New("session not found")
	}
	r.sessions[session.ID] = *session
	return nil
}

// DeleteExpired implements repositories.SessionRepository
func (r *MemorySessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	now := time.Now()
	for id, session := range r.sessions {
		if now.After(session.ExpiresAt) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
