package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/miapp/portal/internal/api/middleware"
	"github.com/miapp/portal/internal/core/ports"
)

// boundStore returns the session record of the current request. A missing
// session id means the Session middleware did not run for this route.
func boundStore(c echo.Context, backend ports.SessionBackend) (ports.SessionStore, string, error) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return nil, "", echo.NewHTTPError(http.StatusInternalServerError, "session not resolved")
	}
	return backend.Bind(sid), sid, nil
}

func render(c echo.Context, status int, t templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return t.Render(c.Request().Context(), c.Response().Writer)
}

// navigator captures redirects the synchronizer asks for so the handler can
// answer with them afterwards. Reload records nothing: the only page that
// reloads is reached through POST /logout, which always answers with a
// redirect home.
type navigator struct {
	redirect string
}

func (n *navigator) Reload()             {}
func (n *navigator) Redirect(url string) { n.redirect = url }
