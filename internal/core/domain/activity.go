package domain

import "time"

// ActivityKind identifies what a session did.
type ActivityKind string

const (
	ActivityPageLoad           ActivityKind = "page_load"
	ActivityLogoutConfirmed    ActivityKind = "logout_confirmed"
	ActivityLogoutDeclined     ActivityKind = "logout_declined"
	ActivityPreferenceRecorded ActivityKind = "preference_recorded"
	ActivityGuardRedirect      ActivityKind = "guard_redirect"
	ActivityGuardAllowed       ActivityKind = "guard_allowed"
)

// ActivityEvent is an audit entry for a synchronizer operation.
type ActivityEvent struct {
	SessionID      string         `json:"session_id" bson:"session_id"`
	Kind           ActivityKind   `json:"kind" bson:"kind"`
	Classification Classification `json:"classification" bson:"classification"`
	Role           string         `json:"role,omitempty" bson:"role,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at" bson:"occurred_at"`
}
