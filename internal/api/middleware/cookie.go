package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jemn/endless-heart/internal/core/domain"
)

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "jemn.sid"

var errInvalidCookie = errors.New("invalid session cookie")

// CookieConfig describes how the session cookie is signed and scoped.
type CookieConfig struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Secure bool
}

// CookieCodec signs session ids into an HS256 token carried by an HttpOnly
// cookie, and verifies them on the way back in.
type CookieCodec struct {
	name   string
	secret []byte
	maxAge time.Duration
	secure bool
}

func NewCookieCodec(cfg CookieConfig) *CookieCodec {
	name := cfg.Name
	if name == "" {
		name = DefaultCookieName
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &CookieCodec{name: name, secret: []byte(cfg.Secret), maxAge: maxAge, secure: cfg.Secure}
}

func (c *CookieCodec) Name() string { return c.name }

// Encode returns the signed cookie value for sess.
func (c *CookieCodec) Encode(sess *domain.Session) (string, error) {
	expires := sess.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(c.maxAge)
	}
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies a cookie value and returns the session id it carries.
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", errInvalidCookie
	}
	return claims.ID, nil
}

// Cookie builds the Set-Cookie value that binds the client to sess.
func (c *CookieCodec) Cookie(sess *domain.Session) (*http.Cookie, error) {
	value, err := c.Encode(sess)
	if err != nil {
		return nil, err
	}
	maxAge := c.maxAge
	if !sess.ExpiresAt.IsZero() {
		maxAge = time.Until(sess.ExpiresAt)
	}
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Expired returns a cookie that instructs the client to discard the session cookie.
func (c *CookieCodec) Expired() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
