package ports

import (
	"context"

	"github.com/jemn/endless-heart/internal/core/domain"
)

// AuthResult carries the authenticated user and the session established for it.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
}

// AuthService registers and authenticates users. Register and Login both
// destroy previousSessionID, when non-empty, before opening a new session.
type AuthService interface {
	Register(ctx context.Context, email, password, previousSessionID string) (*AuthResult, error)
	Login(ctx context.Context, email, password, previousSessionID string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	VerifyPassword(user *domain.User, password string) (bool, error)
}
