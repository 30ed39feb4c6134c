package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jemn/endless-heart/internal/core/domain"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionStore keeps sessions in Redis hashes that expire with the session.
// Key format: session:<id>
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// If ttl <= 0, sessions live for seven days.
func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl, now: time.Now, newID: uuid.NewString}
}

// Create opens a session for userID. The lifetime is absolute: it is not
// extended by later reads.
func (s *SessionStore) Create(ctx context.Context, userID string) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		ID:        s.newID(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	key := s.key(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"user_id", sess.UserID,
			"created_at", sess.CreatedAt.Unix(),
			"expires_at", sess.ExpiresAt.Unix(),
		)
		pipe.ExpireAt(ctx, key, sess.ExpiresAt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get loads a session. Missing, expired or malformed entries report
// domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	vals, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess, ok := decodeSession(id, vals)
	if !ok || sess.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}

func decodeSession(id string, vals map[string]string) (*domain.Session, bool) {
	userID := vals["user_id"]
	if userID == "" {
		return nil, false
	}
	created, err := strconv.ParseInt(vals["created_at"], 10, 64)
	if err != nil {
		return nil, false
	}
	expires, err := strconv.ParseInt(vals["expires_at"], 10, 64)
	if err != nil {
		return nil, false
	}
	return &domain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Unix(created, 0).UTC(),
		ExpiresAt: time.Unix(expires, 0).UTC(),
	}, true
}
