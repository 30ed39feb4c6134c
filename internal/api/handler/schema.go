package handler

import "time"

// messageResponse is the envelope for acknowledgements and every error body.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type credentialsRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type scoreRequest struct {
	Score *float64 `json:"score" validate:"required,gte=0"`
}

// --- Response types ---

type authResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type meResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	Name          string `json:"name"`
}

type scoreItem struct {
	Score float64   `json:"score"`
	Date  time.Time `json:"date"`
}

type scoresResponse struct {
	Scores []scoreItem `json:"scores"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
}
