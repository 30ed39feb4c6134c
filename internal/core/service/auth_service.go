package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jemn/endless-heart/internal/core/domain"
	"github.com/jemn/endless-heart/internal/core/ports"
)

// DefaultHashCost is the bcrypt work factor applied to new passwords.
const DefaultHashCost = 12

// AuthService implements registration, login and logout on top of the
// credential store and the session store.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	hashCost int
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, hashCost int, log zerolog.Logger) *AuthService {
	if hashCost <= 0 {
		hashCost = DefaultHashCost
	}
	return &AuthService{users: users, sessions: sessions, hashCost: hashCost, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, previousSessionID string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	// Cheap path for the common case; the unique index still decides races.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Scores:       []domain.ScoreEntry{},
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	sess, err := s.openSession(ctx, user.ID, previousSessionID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return &ports.AuthResult{User: user, Session: sess}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, previousSessionID string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}

	ok, err := s.VerifyPassword(user, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := s.openSession(ctx, user.ID, previousSessionID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user, Session: sess}, nil
}

// openSession drops the caller's previous session, if any, and issues a new
// one for userID.
func (s *AuthService) openSession(ctx context.Context, userID, previousSessionID string) (*domain.Session, error) {
	if previousSessionID != "" {
		if err := s.sessions.Delete(ctx, previousSessionID); err != nil {
			return nil, fmt.Errorf("drop previous session: %w", err)
		}
	}
	sess, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Logout destroys the session. An empty or unknown id is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// VerifyPassword compares password against the stored bcrypt hash in constant
// time. A mismatch is (false, nil); only a malformed hash yields an error.
func (s *AuthService) VerifyPassword(user *domain.User, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
