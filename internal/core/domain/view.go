package domain

// Region names a toggleable part of a rendered page.
type Region string

const (
	RegionGuestNav   Region = "nav-guest"
	RegionLoggedNav  Region = "nav-logged"
	RegionUserName   Region = "user-name"
	RegionHeroWorker Region = "btn-hero-trabajador"
)

// GreetingPrefix is prepended to the user name in the logged-in nav.
const GreetingPrefix = "Hola, "

// GreetingFallback is shown when a session has an id but no name.
const GreetingFallback = "Hola"

// Greeting renders the logged-in greeting for name.
func Greeting(name string) string {
	if name == "" {
		return GreetingFallback
	}
	return GreetingPrefix + name
}

// ActionEvent is a cancelable navigation triggered by the user, such as
// following a link to a page that needs a session.
type ActionEvent struct {
	Target    string
	prevented bool
}

// NewActionEvent returns an event whose default action navigates to target.
func NewActionEvent(target string) *ActionEvent {
	return &ActionEvent{Target: target}
}

// PreventDefault cancels the default action.
func (e *ActionEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *ActionEvent) DefaultPrevented() bool { return e.prevented }
