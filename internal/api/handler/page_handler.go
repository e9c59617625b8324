package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/miapp/portal/internal/api/metrics"
	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
	"github.com/miapp/portal/internal/core/service"
	"github.com/miapp/portal/internal/view"
)

// confirmAnswers are the confirm field values that accept a logout.
var confirmAnswers = map[string]struct{}{
	"si": {}, "sí": {}, "yes": {}, "true": {}, "1": {},
}

// PagesConfig carries what every synchronized page needs besides the
// session backend.
type PagesConfig struct {
	RegistrationURL string
	Recorder        ports.ActivityRecorder
	Log             zerolog.Logger
}

// PageHandler serves the HTML pages whose navigation reflects the session.
type PageHandler struct {
	sessions ports.SessionBackend
	cfg      PagesConfig
}

func NewPageHandler(sessions ports.SessionBackend, cfg PagesConfig) *PageHandler {
	return &PageHandler{sessions: sessions, cfg: cfg}
}

func (h *PageHandler) viewSync(store ports.SessionStore, sid string, doc ports.ViewBinding, nav ports.Navigator) *service.ViewSync {
	return service.NewViewSync(store, doc, nav, service.ViewSyncOptions{
		SessionID:       sid,
		RegistrationURL: h.cfg.RegistrationURL,
		Recorder:        h.cfg.Recorder,
		Log:             h.cfg.Log,
	})
}

// Home renders the landing page.
func (h *PageHandler) Home(c echo.Context) error {
	store, sid, err := boundStore(c, h.sessions)
	if err != nil {
		return err
	}

	doc := view.HomeDocument()
	class, err := h.viewSync(store, sid, doc, &navigator{}).OnPageLoad(c.Request().Context())
	if err != nil {
		h.cfg.Log.Warn().Err(err).Str("session", sid).Msg("session unreadable, rendering as guest")
	}
	metrics.PageLoadsTotal.WithLabelValues("home", string(class)).Inc()

	return render(c, http.StatusOK, view.Home(doc))
}

// Publish is reachable only with a session; guests are sent to
// registration with rol=cliente recorded.
func (h *PageHandler) Publish(c echo.Context) error {
	store, sid, err := boundStore(c, h.sessions)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	nav := &navigator{}
	doc := view.NavDocument()
	vs := h.viewSync(store, sid, doc, nav)

	ev := domain.NewActionEvent(c.Request().URL.Path)
	if err := vs.GuardBeforeAction(ctx, ev, c.QueryParam("rol")); err != nil {
		return err
	}
	if ev.DefaultPrevented() {
		metrics.GuardDecisionsTotal.WithLabelValues("redirected").Inc()
		return c.Redirect(http.StatusFound, nav.redirect)
	}
	metrics.GuardDecisionsTotal.WithLabelValues("allowed").Inc()

	class, err := vs.OnPageLoad(ctx)
	if err != nil {
		h.cfg.Log.Warn().Err(err).Str("session", sid).Msg("session unreadable, rendering as guest")
	}
	metrics.PageLoadsTotal.WithLabelValues("publish", string(class)).Inc()

	return render(c, http.StatusOK, view.Publish(doc))
}

// Logout without a confirm field renders the confirmation prompt. With one,
// an accepting answer erases the record; either way the visitor lands back
// on the home page.
func (h *PageHandler) Logout(c echo.Context) error {
	store, sid, err := boundStore(c, h.sessions)
	if err != nil {
		return err
	}

	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	answers, asked := params["confirm"]
	if !asked {
		metrics.LogoutsTotal.WithLabelValues("prompted").Inc()
		return render(c, http.StatusOK, view.ConfirmLogout())
	}

	confirm := func() bool {
		if len(answers) == 0 {
			return false
		}
		_, ok := confirmAnswers[answers[0]]
		return ok
	}

	nav := &navigator{}
	done, err := h.viewSync(store, sid, view.NavDocument(), nav).LogOut(c.Request().Context(), confirm)
	if err != nil {
		return err
	}

	if done {
		metrics.LogoutsTotal.WithLabelValues("confirmed").Inc()
		h.cfg.Log.Info().Str("session", sid).Msg("session cleared")
	} else {
		metrics.LogoutsTotal.WithLabelValues("declined").Inc()
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
