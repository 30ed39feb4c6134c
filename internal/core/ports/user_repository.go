package ports

import (
	"context"

	"github.com/jemn/endless-heart/internal/core/domain"
)

// UserRepository is the credential store: users, password hashes and their scores.
type UserRepository interface {
	// Create persists a new user. Email uniqueness is enforced by the store
	// itself and surfaces as domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID loads a user. When fields are given only those attributes
	// (plus the ID) are populated.
	FindByID(ctx context.Context, id string, fields ...domain.UserField) (*domain.User, error)
	// AppendScore atomically appends one entry to the user's score list.
	AppendScore(ctx context.Context, userID string, entry domain.ScoreEntry) error
}
