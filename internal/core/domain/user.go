package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput       = errors.New("email and password required")
	ErrInvalidScore       = errors.New("invalid score")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

// UserField names a projectable attribute of a stored user.
type UserField string

const (
	FieldEmail  UserField = "email"
	FieldName   UserField = "name"
	FieldScores UserField = "scores"
)

// ScoreEntry is one immutable game result owned by a user.
type ScoreEntry struct {
	Score float64   `json:"score"`
	Date  time.Time `json:"date"`
}

// User models a registered player.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	Scores       []ScoreEntry `json:"scores,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// NormalizeEmail returns the canonical, case-folded form under which emails are stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
