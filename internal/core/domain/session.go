package domain

import "errors"

// Keys of the client session record.
const (
	KeyUserID        = "usuario_id"
	KeyUserName      = "usuario_nombre"
	KeyPreferredRole = "rol_preferido"
)

// Roles a guest may record as a pre-registration hint. The set is open;
// these are only the ones the pages reference.
const (
	RoleCliente    = "cliente"
	RoleTrabajador = "trabajador"
)

// Classification is the two-valued session status derived from the record.
type Classification string

const (
	ClassGuest    Classification = "GUEST"
	ClassLoggedIn Classification = "LOGGED_IN"
)

var ErrInvalidRole = errors.New("role must not be empty")
var ErrInvalidSession = errors.New("invalid session record")
var ErrSessionUnavailable = errors.New("session storage unavailable")

// SessionRecord is a snapshot of the client session record. An empty UserID
// means guest; it is the only input to classification.
type SessionRecord struct {
	UserID        string `json:"usuario_id,omitempty"`
	UserName      string `json:"usuario_nombre,omitempty"`
	PreferredRole string `json:"rol_preferido,omitempty"`
}

// Classify reports the session status for the record.
func (r SessionRecord) Classify() Classification {
	return ClassifyUserID(r.UserID)
}

// ClassifyUserID maps the presence of a user id to a classification.
func ClassifyUserID(userID string) Classification {
	if userID != "" {
		return ClassLoggedIn
	}
	return ClassGuest
}
