package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/core/domain"
	"github.com/jemn/endless-heart/internal/core/ports"
)

type ScoreService struct {
	users ports.UserRepository
	now   func() time.Time
	log   zerolog.Logger
}

func NewScoreService(users ports.UserRepository, log zerolog.Logger) *ScoreService {
	return &ScoreService{users: users, now: time.Now, log: log}
}

// Submit appends a score stamped with the current time. Scores must be
// finite and non-negative.
func (s *ScoreService) Submit(ctx context.Context, userID string, score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return domain.ErrInvalidScore
	}

	entry := domain.ScoreEntry{Score: score, Date: s.now().UTC()}
	if err := s.users.AppendScore(ctx, userID, entry); err != nil {
		return fmt.Errorf("submit score: %w", err)
	}

	s.log.Info().Str("user_id", userID).Float64("score", score).Msg("score saved")
	return nil
}

// List returns every score the user has submitted, highest first. Equal
// scores keep their submission order.
func (s *ScoreService) List(ctx context.Context, userID string) (*ports.Leaderboard, error) {
	user, err := s.users.FindByID(ctx, userID, domain.FieldScores, domain.FieldName, domain.FieldEmail)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	entries := slices.Clone(user.Scores)
	if entries == nil {
		entries = []domain.ScoreEntry{}
	}
	slices.SortStableFunc(entries, func(a, b domain.ScoreEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return &ports.Leaderboard{
		Entries: entries,
		Name:    user.DisplayName(),
		Email:   user.Email,
	}, nil
}

func (s *ScoreService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID, domain.FieldEmail, domain.FieldName)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &ports.Profile{
		UserID: userID,
		Email:  user.Email,
		Name:   user.DisplayName(),
	}, nil
}
