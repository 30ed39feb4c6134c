package ports

import (
	"context"

	"github.com/jemn/endless-heart/internal/core/domain"
)

// SessionStore persists sessions outside the process, keyed by an opaque token.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*domain.Session, error)
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
}
