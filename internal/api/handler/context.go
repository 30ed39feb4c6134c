package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/api/middleware"
	"github.com/jemn/endless-heart/internal/core/domain"
)

// ctxSession returns the session resolved by middleware.LoadSession. Guarded
// routes always have one; its absence means the guard was not mounted.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return sess, nil
}

// respond writes {"message": msg} with status. Server faults are logged with
// their cause; the client only sees msg.
func respond(c echo.Context, log zerolog.Logger, status int, msg string, cause error) error {
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(cause).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg(msg)
	}
	return c.JSON(status, messageResponse{Message: msg})
}
