package ports

import (
	"context"

	"github.com/jemn/endless-heart/internal/core/domain"
)

// Leaderboard is a user's score history ordered best first.
type Leaderboard struct {
	Entries []domain.ScoreEntry
	Name    string // display name: user name, or email when unset
	Email   string
}

// Profile is the identity view of the signed-in user.
type Profile struct {
	UserID string
	Email  string
	Name   string // display name
}

// ScoreService records and reads per-user scores.
type ScoreService interface {
	Submit(ctx context.Context, userID string, score float64) error
	List(ctx context.Context, userID string) (*Leaderboard, error)
	Profile(ctx context.Context, userID string) (*Profile, error)
}
