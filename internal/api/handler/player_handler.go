package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/api/metrics"
	"github.com/jemn/endless-heart/internal/core/domain"
	"github.com/jemn/endless-heart/internal/core/ports"
)

// PlayerHandler serves the signed-in player's identity and scores.
type PlayerHandler struct {
	scores ports.ScoreService
	log    zerolog.Logger
}

func NewPlayerHandler(scores ports.ScoreService, log zerolog.Logger) *PlayerHandler {
	return &PlayerHandler{scores: scores, log: log}
}

// Me handles GET /me.
//
// @Summary      Current user
// @Tags         player
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /me [get]
func (h *PlayerHandler) Me(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	profile, err := h.scores.Profile(c.Request().Context(), sess.UserID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return respond(c, h.log, http.StatusNotFound, "User not found", err)
	case err != nil:
		return respond(c, h.log, http.StatusInternalServerError, "Error fetching user info", err)
	}

	return c.JSON(http.StatusOK, meResponse{
		Authenticated: true,
		UserID:        profile.UserID,
		Email:         profile.Email,
		Name:          profile.Name,
	})
}

// ListScores handles GET /api/scores.
//
// @Summary      List the current user's scores, best first
// @Tags         scores
// @Produce      json
// @Success      200  {object}  scoresResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /api/scores [get]
func (h *PlayerHandler) ListScores(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	board, err := h.scores.List(c.Request().Context(), sess.UserID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return respond(c, h.log, http.StatusNotFound, "User not found", err)
	case err != nil:
		return respond(c, h.log, http.StatusInternalServerError, "Error fetching scores", err)
	}

	items := make([]scoreItem, 0, len(board.Entries))
	for _, e := range board.Entries {
		items = append(items, scoreItem{Score: e.Score, Date: e.Date})
	}
	return c.JSON(http.StatusOK, scoresResponse{Scores: items, Name: board.Name, Email: board.Email})
}

// SubmitScore handles POST /api/scores.
//
// @Summary      Save a score for the current user
// @Tags         scores
// @Accept       json
// @Produce      json
// @Param        body  body      scoreRequest  true  "Score (number >= 0)"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/scores [post]
func (h *PlayerHandler) SubmitScore(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, h.log, http.StatusBadRequest, "Invalid score", err)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, h.log, http.StatusBadRequest, "Invalid score", err)
	}

	err = h.scores.Submit(c.Request().Context(), sess.UserID, *req.Score)
	switch {
	case errors.Is(err, domain.ErrInvalidScore):
		return respond(c, h.log, http.StatusBadRequest, "Invalid score", err)
	case errors.Is(err, domain.ErrUserNotFound):
		return respond(c, h.log, http.StatusNotFound, "User not found", err)
	case err != nil:
		return respond(c, h.log, http.StatusInternalServerError, "Error saving score", err)
	}

	metrics.ScoresSubmittedTotal.Inc()
	metrics.SubmittedScore.Observe(*req.Score)
	return c.JSON(http.StatusOK, messageResponse{Message: "Score saved"})
}
