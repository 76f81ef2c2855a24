package domain

import "time"

// Role is the coarse permission tier derived from a decoded credential.
// It is a UI-level hint only; the upstream backend re-authorizes every call.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleAdmin   Role = "ADMIN"
	RoleNone    Role = "NONE"
)

// Claims carries the unverified fields decoded from a credential payload.
// Any field may be absent; absence degrades to RoleNone downstream.
type Claims struct {
	UserID   int64
	Username string
	Email    string
	// IsStaff is nil when the token carries no staff flag at all, which is
	// distinct from an explicit false.
	IsStaff *bool
	Role    string
	// ExpiresAt is the zero time when the token carries no expiry.
	ExpiresAt time.Time
}

// State is the derived per-session view consumed by the route guard and
// navigation rendering. It is recomputed from the stored credential on every
// request and never persisted itself.
type State struct {
	IsLoggedIn bool
	Role       Role
	Username   string
}

// LoggedOut is the state of a session with no stored credential.
func LoggedOut() State {
	return State{IsLoggedIn: false, Role: RoleNone}
}
