package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/munnerz/goautoneg"
)

// LoginPath is where unauthenticated browser navigations are sent.
const LoginPath = "/login"

var negotiable = []string{echo.MIMETextHTML, echo.MIMEApplicationJSON}

// RequireSession gates a route on an authenticated session. Callers that
// prefer HTML are redirected to the login page; everyone else gets a 401
// JSON body and no redirect.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SessionFrom(c); ok {
				return next(c)
			}
			if PrefersHTML(c.Request()) {
				return c.Redirect(http.StatusFound, LoginPath)
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		}
	}
}

// PrefersHTML reports whether the request's Accept header ranks an HTML page
// above JSON. A missing header accepts anything, so HTML wins.
func PrefersHTML(r *http.Request) bool {
	accept := strings.TrimSpace(r.Header.Get(echo.HeaderAccept))
	if accept == "" {
		return true
	}
	return goautoneg.Negotiate(accept, negotiable) == echo.MIMETextHTML
}
