package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/miapp/portal/internal/api/middleware"
	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/infrastructure/session/memory"
)

const testSID = "sid-test"

type fixture struct {
	backend  *memory.Backend
	pages    *PageHandler
	sessions *SessionHandler
}

func newFixture(record map[string]string) *fixture {
	backend := memory.NewBackend()
	store := backend.Bind(testSID)
	for k, v := range record {
		_ = store.Set(context.Background(), k, v)
	}
	cfg := PagesConfig{RegistrationURL: "/principal.html", Log: zerolog.Nop()}
	return &fixture{
		backend:  backend,
		pages:    NewPageHandler(backend, cfg),
		sessions: NewSessionHandler(backend, cfg),
	}
}

func (f *fixture) get(key string) string {
	v, _ := f.backend.Bind(testSID).Get(context.Background(), key)
	return v
}

// serve runs h behind the Session middleware with a cookie for testSID.
func serve(t *testing.T, h echo.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	codec := middleware.NewSessionCodec("test-secret", time.Hour)
	token, err := codec.Encode(testSID)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := middleware.Session(codec, false)(h)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

func TestPageHandler_Home_Guest(t *testing.T) {
	f := newFixture(nil)
	rec := serve(t, f.pages.Home, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<div id="nav-guest">`) {
		t.Errorf("expected guest nav visible")
	}
	if !strings.Contains(body, `<div id="nav-logged" class="d-none">`) {
		t.Errorf("expected logged nav hidden")
	}
	if strings.Contains(body, `style="display: none"`) {
		t.Errorf("expected hero call-to-action visible for guests")
	}
}

func TestPageHandler_Home_LoggedIn(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyUserID: "42", domain.KeyUserName: "Ana"})
	rec := serve(t, f.pages.Home, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `<div id="nav-guest" class="d-none">`) {
		t.Errorf("expected guest nav hidden")
	}
	if !strings.Contains(body, `<span id="user-name">Hola, Ana</span>`) {
		t.Errorf("expected greeting, got %s", body)
	}
	if !strings.Contains(body, `style="display: none"`) {
		t.Errorf("expected hero call-to-action hidden")
	}
}

func TestPageHandler_Publish_GuestRedirected(t *testing.T) {
	f := newFixture(nil)
	rec := serve(t, f.pages.Publish, httptest.NewRequest(http.MethodGet, "/publicar?rol=trabajador", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/principal.html?rol=cliente" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if got := f.get(domain.KeyPreferredRole); got != "cliente" {
		t.Errorf("expected rol_preferido=cliente, got %q", got)
	}
}

func TestPageHandler_Publish_LoggedInProceeds(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyUserID: "42", domain.KeyUserName: "Ana"})
	rec := serve(t, f.pages.Publish, httptest.NewRequest(http.MethodGet, "/publicar", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Publicar un servicio") {
		t.Errorf("expected publish page")
	}
	if got := f.get(domain.KeyPreferredRole); got != "" {
		t.Errorf("expected no storage mutation, got rol_preferido=%q", got)
	}
}

func TestPageHandler_Logout_Prompts(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyUserID: "42"})
	rec := serve(t, f.pages.Logout, formRequest(http.MethodPost, "/logout", url.Values{}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cerrar sesión?") {
		t.Errorf("expected confirmation question")
	}
	if f.get(domain.KeyUserID) != "42" {
		t.Errorf("prompt must not change storage")
	}
}

func TestPageHandler_Logout_Confirmed(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyUserID: "42", domain.KeyUserName: "Ana", domain.KeyPreferredRole: "cliente"})
	rec := serve(t, f.pages.Logout, formRequest(http.MethodPost, "/logout", url.Values{"confirm": {"si"}}))

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if f.backend.Len() != 0 {
		t.Errorf("expected storage emptied")
	}

	home := serve(t, f.pages.Home, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(home.Body.String(), `<div id="nav-guest">`) {
		t.Errorf("expected guest page after logout")
	}
}

func TestPageHandler_Logout_Declined(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyUserID: "42", domain.KeyUserName: "Ana"})
	rec := serve(t, f.pages.Logout, formRequest(http.MethodPost, "/logout", url.Values{"confirm": {"no"}}))

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected 303 to /, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if f.get(domain.KeyUserID) != "42" || f.get(domain.KeyUserName) != "Ana" {
		t.Errorf("declined logout changed storage")
	}
}

// ---------------------------------------------------------------------------
// Session API
// ---------------------------------------------------------------------------

func TestSessionHandler_AdoptThenGet(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyPreferredRole: "trabajador"})

	rec := serve(t, f.sessions.Adopt, jsonRequest(http.MethodPut, "/session", `{"usuario_id":"42","usuario_nombre":"Ana"}`))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, f.sessions.Get, httptest.NewRequest(http.MethodGet, "/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Classification != domain.ClassLoggedIn {
		t.Errorf("expected LOGGED_IN, got %s", resp.Classification)
	}
	want := domain.SessionRecord{UserID: "42", UserName: "Ana", PreferredRole: "trabajador"}
	if resp.Record != want {
		t.Errorf("expected %+v, got %+v", want, resp.Record)
	}
}

func TestSessionHandler_Adopt_MissingUserID(t *testing.T) {
	f := newFixture(nil)
	rec := serve(t, f.sessions.Adopt, jsonRequest(http.MethodPut, "/session", `{"usuario_nombre":"Ana"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if f.backend.Len() != 0 {
		t.Errorf("expected nothing stored")
	}
}

func TestSessionHandler_Adopt_InvalidPayload(t *testing.T) {
	f := newFixture(nil)
	rec := serve(t, f.sessions.Adopt, jsonRequest(http.MethodPut, "/session", "{"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionHandler_RecordPreference_JSON(t *testing.T) {
	f := newFixture(map[string]string{domain.KeyUserID: "42", domain.KeyPreferredRole: "cliente"})
	rec := serve(t, f.sessions.RecordPreference, jsonRequest(http.MethodPost, "/preferences", `{"rol":"trabajador"}`))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if f.get(domain.KeyPreferredRole) != "trabajador" {
		t.Errorf("expected trabajador, got %q", f.get(domain.KeyPreferredRole))
	}
	if f.get(domain.KeyUserID) != "42" {
		t.Errorf("usuario_id must be untouched")
	}
}

func TestSessionHandler_RecordPreference_FormRedirects(t *testing.T) {
	f := newFixture(nil)
	rec := serve(t, f.sessions.RecordPreference, formRequest(http.MethodPost, "/preferences", url.Values{"rol": {"trabajador"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/principal.html?rol=trabajador" {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestSessionHandler_RecordPreference_EmptyRole(t *testing.T) {
	f := newFixture(nil)
	rec := serve(t, f.sessions.RecordPreference, jsonRequest(http.MethodPost, "/preferences", `{"rol":""}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if f.get(domain.KeyPreferredRole) != "" {
		t.Errorf("expected nothing stored")
	}
}

func TestBoundStore_WithoutMiddleware(t *testing.T) {
	f := newFixture(nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := f.pages.Home(c); err == nil {
		t.Fatalf("expected error when the session middleware did not run")
	}
}

func TestNavigator_ReloadLeavesRedirectUnset(t *testing.T) {
	nav := &navigator{}
	nav.Reload()
	if nav.redirect != "" {
		t.Fatalf("reload must not set a redirect, got %q", nav.redirect)
	}
	nav.Redirect("/principal.html?rol=cliente")
	if nav.redirect != "/principal.html?rol=cliente" {
		t.Fatalf("unexpected redirect %q", nav.redirect)
	}
}
