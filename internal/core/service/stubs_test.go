package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jemn/endless-heart/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	seq       int
	findErr   error // if set, FindByEmail/FindByID return this error
	createErr error // if set, Create returns this error
	appendErr error // if set, AppendScore returns this error
	lastProj  []domain.UserField
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Scores = append([]domain.ScoreEntry(nil), u.Scores...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string, fields ...domain.UserField) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastProj = fields
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) AppendScore(_ context.Context, userID string, entry domain.ScoreEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Scores = append(u.Scores, entry)
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ---------------------------------------------------------------------------
// In-memory stub session store
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions  map[string]*domain.Session
	seq       int
	createErr error
	deleteErr error
	deleted   []string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, userID string) (*domain.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.seq++
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        fmt.Sprintf("sess-%d", s.seq),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	delete(s.sessions, id)
	return nil
}
