package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/core/domain"
	"github.com/jemn/endless-heart/internal/core/ports"
)

const sessionKey = "session"

// LoadSession resolves the session cookie into a *domain.Session on the echo
// context. Requests without a valid session continue anonymously; a stale or
// forged cookie is cleared. Only a session store failure aborts the request.
func LoadSession(store ports.SessionStore, codec *CookieCodec, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(codec.Name())
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sid, err := codec.Decode(cookie.Value)
			if err != nil {
				log.Debug().Str("path", c.Path()).Msg("discarding unverifiable session cookie")
				c.SetCookie(codec.Expired())
				return next(c)
			}

			sess, err := store.Get(c.Request().Context(), sid)
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				c.SetCookie(codec.Expired())
				return next(c)
			case err != nil:
				return echo.NewHTTPError(http.StatusInternalServerError, "Session lookup failed").SetInternal(err)
			}

			WithSession(c, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session resolved by LoadSession, if any.
func SessionFrom(c echo.Context) (*domain.Session, bool) {
	sess, ok := c.Get(sessionKey).(*domain.Session)
	return sess, ok && sess != nil && sess.UserID != ""
}

// WithSession stores sess on the context as LoadSession would.
func WithSession(c echo.Context, sess *domain.Session) {
	c.Set(sessionKey, sess)
}
