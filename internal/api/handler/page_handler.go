package handler

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jemn/endless-heart/internal/api/middleware"
)

// PageHandler serves the static HTML pages.
type PageHandler struct {
	pages fs.FS
}

func NewPageHandler(pages fs.FS) *PageHandler {
	return &PageHandler{pages: pages}
}

// Root sends signed-in users to the dashboard and everyone else to login.
func (h *PageHandler) Root(c echo.Context) error {
	if _, ok := middleware.SessionFrom(c); ok {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Page returns a handler that serves the named file from the page set.
func (h *PageHandler) Page(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.(interface {
			FileFS(file string, filesystem fs.FS) error
		}).FileFS(name, h.pages)
	}
}
