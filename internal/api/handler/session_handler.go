package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/miapp/portal/internal/api/metrics"
	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
	"github.com/miapp/portal/internal/core/service"
	"github.com/miapp/portal/internal/view"
)

// SessionHandler exposes the session record as JSON and accepts the writes
// made by pages and by the login flow.
type SessionHandler struct {
	sessions ports.SessionBackend
	cfg      PagesConfig
}

func NewSessionHandler(sessions ports.SessionBackend, cfg PagesConfig) *SessionHandler {
	return &SessionHandler{sessions: sessions, cfg: cfg}
}

type adoptSessionRequest struct {
	UserID   string `json:"usuario_id"     validate:"required,max=128"`
	UserName string `json:"usuario_nombre" validate:"max=128"`
}

type preferenceRequest struct {
	Role string `json:"rol" form:"rol" validate:"required,max=64"`
}

type sessionResponse struct {
	Classification domain.Classification `json:"classification"`
	Record         domain.SessionRecord  `json:"record"`
}

// Get returns the current session record.
//
// @Summary      Read the session record
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      503  {object}  errorResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	store, _, err := boundStore(c, h.sessions)
	if err != nil {
		return err
	}

	rec, err := service.ReadRecord(c.Request().Context(), store)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Classification: rec.Classify(), Record: rec})
}

// Adopt stores the identity handed over by the login flow.
//
// @Summary      Store the logged-in identity
// @Tags         session
// @Accept       json
// @Param        body  body  adoptSessionRequest  true  "Identity returned by login"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /session [put]
func (h *SessionHandler) Adopt(c echo.Context) error {
	var req adoptSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	store, sid, err := boundStore(c, h.sessions)
	if err != nil {
		return err
	}
	if err := service.AdoptSession(c.Request().Context(), store, req.UserID, req.UserName); err != nil {
		return err
	}

	h.cfg.Log.Info().Str("session", sid).Str("usuario_id", req.UserID).Msg("session adopted")
	return c.NoContent(http.StatusNoContent)
}

// RecordPreference stores the role a guest is interested in. Form posts
// from the pages continue to registration with that role preselected.
//
// @Summary      Record the preferred role
// @Tags         session
// @Accept       json
// @Param        body  body  preferenceRequest  true  "Preferred role"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /preferences [post]
func (h *SessionHandler) RecordPreference(c echo.Context) error {
	var req preferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	store, sid, err := boundStore(c, h.sessions)
	if err != nil {
		return err
	}

	vs := service.NewViewSync(store, view.NavDocument(), &navigator{}, service.ViewSyncOptions{
		SessionID:       sid,
		RegistrationURL: h.cfg.RegistrationURL,
		Recorder:        h.cfg.Recorder,
		Log:             h.cfg.Log,
	})
	if err := vs.RecordPreference(c.Request().Context(), req.Role); err != nil {
		return err
	}
	metrics.PreferencesRecordedTotal.WithLabelValues(req.Role).Inc()

	if isFormPost(c) {
		return c.Redirect(http.StatusSeeOther, service.RegistrationTargetFor(h.cfg.RegistrationURL, req.Role))
	}
	return c.NoContent(http.StatusNoContent)
}

func isFormPost(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm)
}

