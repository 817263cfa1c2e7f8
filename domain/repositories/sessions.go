package repositories

import (
	"context"

	"github.com/stegavox/stegavox/domain/entities"
)

// SessionRepository persists hide-time context so a later reveal can run an
// integrity check against the original message hash
type SessionRepository interface {
	// Create stores a new hide session
	Create(ctx context.Context, session *entities.HideSession) error
	// GetByID retrieves a session by its ID
	GetByID(ctx context.Context, id string) (*entities.HideSession, error)
	// Update persists changes to an existing session
	Update(ctx context.Context, session *entities.HideSession) error
	// DeleteExpired removes sessions past their expiration
	DeleteExpired(ctx context.Context) (int64, error)
}
