package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/miapp/portal/internal/core/domain"
	"github.com/miapp/portal/internal/core/ports"
)

// RegistrationRole is the role recorded and requested when a guest is sent
// to registration by GuardBeforeAction.
const RegistrationRole = domain.RoleCliente

// ViewSyncOptions carries the per-page collaborators that are not part of
// the session/view/navigation triple.
type ViewSyncOptions struct {
	// SessionID tags audit events. It is never written to the record.
	SessionID string
	// RegistrationURL is where GuardBeforeAction sends guests.
	RegistrationURL string
	// Recorder receives audit events. Nil disables auditing.
	Recorder ports.ActivityRecorder
	Log      zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// ViewSync reconciles a page's visible regions with the session record.
// One instance serves one page of one visitor; it holds no state of its own.
type ViewSync struct {
	store ports.SessionStore
	view  ports.ViewBinding
	nav   ports.Navigator
	opts  ViewSyncOptions
}

func NewViewSync(store ports.SessionStore, view ports.ViewBinding, nav ports.Navigator, opts ViewSyncOptions) *ViewSync {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ViewSync{store: store, view: view, nav: nav, opts: opts}
}

// OnPageLoad classifies the session and toggles the regions so that exactly
// one of the guest or logged-in navs is visible. It never writes storage.
//
// When the record cannot be read the page is shown as guest and the read
// error is returned alongside ClassGuest.
func (s *ViewSync) OnPageLoad(ctx context.Context) (domain.Classification, error) {
	userID, err := s.store.Get(ctx, domain.KeyUserID)
	if err != nil {
		s.applyGuest()
		return domain.ClassGuest, fmt.Errorf("page load: %w: %v", domain.ErrSessionUnavailable, err)
	}

	if userID == "" {
		s.applyGuest()
		s.record(domain.ActivityPageLoad, domain.ClassGuest, "")
		return domain.ClassGuest, nil
	}

	userName, err := s.store.Get(ctx, domain.KeyUserName)
	if err != nil {
		s.opts.Log.Warn().Err(err).Str("session", s.opts.SessionID).Msg("user name unreadable, using fallback greeting")
		userName = ""
	}

	s.view.Hide(domain.RegionGuestNav)
	s.view.Show(domain.RegionLoggedNav)
	s.view.SetText(domain.RegionUserName, domain.Greeting(userName))
	s.view.Hide(domain.RegionHeroWorker)

	s.record(domain.ActivityPageLoad, domain.ClassLoggedIn, "")
	return domain.ClassLoggedIn, nil
}

func (s *ViewSync) applyGuest() {
	s.view.Show(domain.RegionGuestNav)
	s.view.Hide(domain.RegionLoggedNav)
}

// LogOut asks for confirmation and, when given, erases the whole record and
// reloads the page. It reports whether the logout happened. Declining
// changes nothing.
func (s *ViewSync) LogOut(ctx context.Context, confirm ports.Confirm) (bool, error) {
	if confirm == nil || !confirm() {
		s.record(domain.ActivityLogoutDeclined, "", "")
		return false, nil
	}

	if err := s.store.Clear(ctx); err != nil {
		return false, fmt.Errorf("logout: %w: %v", domain.ErrSessionUnavailable, err)
	}

	s.record(domain.ActivityLogoutConfirmed, domain.ClassGuest, "")
	s.nav.Reload()
	return true, nil
}

// RecordPreference overwrites the preferred role. Any non-empty tag is
// accepted.
func (s *ViewSync) RecordPreference(ctx context.Context, role string) error {
	if role == "" {
		return domain.ErrInvalidRole
	}
	if err := s.store.Set(ctx, domain.KeyPreferredRole, role); err != nil {
		return fmt.Errorf("record preference: %w: %v", domain.ErrSessionUnavailable, err)
	}
	s.record(domain.ActivityPreferenceRecorded, "", role)
	return nil
}

// GuardBeforeAction lets a logged-in visitor through untouched. A guest has
// the event cancelled, "cliente" recorded as preferred role and is
// redirected to registration.
//
// The role argument is not consulted: the guest is always recorded and
// redirected as "cliente". Pages pass the role of the link they guard so a
// future change can honor it.
func (s *ViewSync) GuardBeforeAction(ctx context.Context, event *domain.ActionEvent, role string) error {
	userID, err := s.store.Get(ctx, domain.KeyUserID)
	if err != nil {
		return fmt.Errorf("guard: %w: %v", domain.ErrSessionUnavailable, err)
	}

	if userID != "" {
		s.record(domain.ActivityGuardAllowed, domain.ClassLoggedIn, "")
		return nil
	}

	event.PreventDefault()
	if err := s.RecordPreference(ctx, RegistrationRole); err != nil {
		return fmt.Errorf("guard: %w", err)
	}

	s.opts.Log.Debug().
		Str("session", s.opts.SessionID).
		Str("target", event.Target).
		Str("requested_role", role).
		Msg("guest redirected to registration")

	s.record(domain.ActivityGuardRedirect, domain.ClassGuest, RegistrationRole)
	s.nav.Redirect(RegistrationTarget(s.opts.RegistrationURL))
	return nil
}

// RegistrationTarget appends rol=cliente to base, keeping any query it
// already carries.
func RegistrationTarget(base string) string {
	return RegistrationTargetFor(base, RegistrationRole)
}

// RegistrationTargetFor appends rol=<role> to base.
func RegistrationTargetFor(base, role string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?rol=" + url.QueryEscape(role)
	}
	q := u.Query()
	q.Set("rol", role)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *ViewSync) record(kind domain.ActivityKind, class domain.Classification, role string) {
	if s.opts.Recorder == nil {
		return
	}
	s.opts.Recorder.Record(domain.ActivityEvent{
		SessionID:      s.opts.SessionID,
		Kind:           kind,
		Classification: class,
		Role:           role,
		OccurredAt:     s.opts.Now().UTC(),
	})
}
