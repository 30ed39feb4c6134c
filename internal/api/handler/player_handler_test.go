package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/api/middleware"
	"github.com/jemn/endless-heart/internal/core/domain"
	"github.com/jemn/endless-heart/internal/core/ports"
)

type stubScoreService struct {
	submitFn  func(ctx context.Context, userID string, score float64) error
	listFn    func(ctx context.Context, userID string) (*ports.Leaderboard, error)
	profileFn func(ctx context.Context, userID string) (*ports.Profile, error)
}

func (s *stubScoreService) Submit(ctx context.Context, userID string, score float64) error {
	return s.submitFn(ctx, userID, score)
}

func (s *stubScoreService) List(ctx context.Context, userID string) (*ports.Leaderboard, error) {
	return s.listFn(ctx, userID)
}

func (s *stubScoreService) Profile(ctx context.Context, userID string) (*ports.Profile, error) {
	return s.profileFn(ctx, userID)
}

func signedIn(c echo.Context) echo.Context {
	middleware.WithSession(c, &domain.Session{ID: "s1", UserID: "u1"})
	return c
}

func TestPlayerHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubScoreService{
		profileFn: func(ctx context.Context, userID string) (*ports.Profile, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user: %s", userID)
			}
			return &ports.Profile{UserID: "u1", Email: "a@x.com", Name: "a@x.com"}, nil
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := signedIn(e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), rec))
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["authenticated"] != true || resp["userId"] != "u1" || resp["email"] != "a@x.com" || resp["name"] != "a@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPlayerHandler_Me_UserGone(t *testing.T) {
	e := newTestEcho()
	stub := &stubScoreService{
		profileFn: func(ctx context.Context, userID string) (*ports.Profile, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	_ = handler.Me(signedIn(e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), rec)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPlayerHandler_Me_Fault(t *testing.T) {
	e := newTestEcho()
	stub := &stubScoreService{
		profileFn: func(ctx context.Context, userID string) (*ports.Profile, error) {
			return nil, errors.New("boom")
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	_ = handler.Me(signedIn(e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), rec)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["message"] != "Error fetching user info" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPlayerHandler_Me_NoSession(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(&stubScoreService{}, zerolog.Nop())

	err := handler.Me(e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPlayerHandler_ListScores(t *testing.T) {
	e := newTestEcho()
	date := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	stub := &stubScoreService{
		listFn: func(ctx context.Context, userID string) (*ports.Leaderboard, error) {
			return &ports.Leaderboard{
				Entries: []domain.ScoreEntry{{Score: 10, Date: date}, {Score: 3, Date: date}},
				Name:    "Alice",
				Email:   "a@x.com",
			}, nil
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	if err := handler.ListScores(signedIn(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/scores", nil), rec))); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	scores, ok := resp["scores"].([]any)
	if !ok || len(scores) != 2 {
		t.Fatalf("unexpected scores: %+v", resp["scores"])
	}
	first := scores[0].(map[string]any)
	if first["score"] != float64(10) || first["date"] != "2026-10-01T09:00:00Z" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if resp["name"] != "Alice" || resp["email"] != "a@x.com" {
		t.Fatalf("unexpected identity: %+v", resp)
	}
}

func TestPlayerHandler_ListScores_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubScoreService{
		listFn: func(ctx context.Context, userID string) (*ports.Leaderboard, error) {
			return &ports.Leaderboard{Name: "a@x.com", Email: "a@x.com"}, nil
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	_ = handler.ListScores(signedIn(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/scores", nil), rec)))
	if scores, ok := decodeBody(t, rec)["scores"].([]any); !ok || len(scores) != 0 {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestPlayerHandler_ListScores_Errors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		e := newTestEcho()
		stub := &stubScoreService{
			listFn: func(ctx context.Context, userID string) (*ports.Leaderboard, error) {
				return nil, tc.err
			},
		}
		handler := NewPlayerHandler(stub, zerolog.Nop())

		rec := httptest.NewRecorder()
		_ = handler.ListScores(signedIn(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/scores", nil), rec)))
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestPlayerHandler_SubmitScore(t *testing.T) {
	e := newTestEcho()
	var got float64
	stub := &stubScoreService{
		submitFn: func(ctx context.Context, userID string, score float64) error {
			if userID != "u1" {
				t.Fatalf("unexpected user: %s", userID)
			}
			got = score
			return nil
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := signedIn(e.NewContext(jsonRequest(http.MethodPost, "/api/scores", `{"score":5}`), rec))
	if err := handler.SubmitScore(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || got != 5 {
		t.Fatalf("expected 200 with score 5, got %d / %v", rec.Code, got)
	}
	if resp := decodeBody(t, rec); resp["message"] != "Score saved" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPlayerHandler_SubmitScore_Zero(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubScoreService{
		submitFn: func(ctx context.Context, userID string, score float64) error {
			called = true
			return nil
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	_ = handler.SubmitScore(signedIn(e.NewContext(jsonRequest(http.MethodPost, "/api/scores", `{"score":0}`), rec)))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("zero must be accepted, got %d", rec.Code)
	}
}

func TestPlayerHandler_SubmitScore_Invalid(t *testing.T) {
	e := newTestEcho()
	stub := &stubScoreService{
		submitFn: func(ctx context.Context, userID string, score float64) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	for _, body := range []string{
		`{"score":-1}`,
		`{"score":"5"}`,
		`{"score":"abc"}`,
		`{"score":null}`,
		`{"score":true}`,
		`{}`,
		`not-json`,
	} {
		rec := httptest.NewRecorder()
		_ = handler.SubmitScore(signedIn(e.NewContext(jsonRequest(http.MethodPost, "/api/scores", body), rec)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		if resp := decodeBody(t, rec); resp["message"] != "Invalid score" {
			t.Fatalf("body %s: unexpected payload %+v", body, resp)
		}
	}
}

func TestPlayerHandler_SubmitScore_Fault(t *testing.T) {
	e := newTestEcho()
	stub := &stubScoreService{
		submitFn: func(ctx context.Context, userID string, score float64) error {
			return errors.New("write concern failed")
		},
	}
	handler := NewPlayerHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	_ = handler.SubmitScore(signedIn(e.NewContext(jsonRequest(http.MethodPost, "/api/scores", `{"score":1}`), rec)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["message"] != "Error saving score" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
