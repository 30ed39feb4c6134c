package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/api/metrics"
	"github.com/jemn/endless-heart/internal/api/middleware"
	"github.com/jemn/endless-heart/internal/core/domain"
	"github.com/jemn/endless-heart/internal/core/ports"
)

// SessionCookies issues and clears the cookie that carries a session.
type SessionCookies interface {
	Cookie(sess *domain.Session) (*http.Cookie, error)
	Expired() *http.Cookie
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     SessionCookies
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies SessionCookies, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

// Register creates a new account and signs the caller in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Invalid payload", err)
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Email and password required", err)
	}

	res, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, previousSessionID(c))
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Email and password required", err)
	case errors.Is(err, domain.ErrDuplicateEmail):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Email already in use", err)
	case err != nil:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return respond(c, h.log, http.StatusInternalServerError, "Registration failed", err)
	}

	cookie, err := h.cookies.Cookie(res.Session)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return respond(c, h.log, http.StatusInternalServerError, "Registration failed", err)
	}
	c.SetCookie(cookie)

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusCreated, authResponse{Message: "Registered", UserID: res.User.ID})
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Email and password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Invalid payload", err)
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Email and password required", err)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, previousSessionID(c))
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return respond(c, h.log, http.StatusBadRequest, "Email and password required", err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalidCredentials).Inc()
		return respond(c, h.log, http.StatusUnauthorized, "Invalid credentials", err)
	case err != nil:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return respond(c, h.log, http.StatusInternalServerError, "Login failed", err)
	}

	cookie, err := h.cookies.Cookie(res.Session)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return respond(c, h.log, http.StatusInternalServerError, "Login failed", err)
	}
	c.SetCookie(cookie)

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, authResponse{Message: "Logged in", UserID: res.User.ID})
}

// Logout destroys the current session, if any, and sends the browser to the
// login page.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	metrics.LogoutsTotal.Inc()

	if sess, ok := middleware.SessionFrom(c); ok {
		if err := h.authService.Logout(c.Request().Context(), sess.ID); err != nil {
			h.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("failed to destroy session")
		}
	}

	c.SetCookie(h.cookies.Expired())
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// previousSessionID returns the id of the session the caller already holds so
// that signing in again replaces it.
func previousSessionID(c echo.Context) string {
	if sess, ok := middleware.SessionFrom(c); ok {
		return sess.ID
	}
	return ""
}
