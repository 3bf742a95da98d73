package domain

import "time"

// SessionEventKind names an account lifecycle transition.
type SessionEventKind string

const (
	SessionRegistered SessionEventKind = "registered"
	SessionLoggedIn   SessionEventKind = "logged_in"
	SessionLoggedOut  SessionEventKind = "logged_out"
)

// SessionEvent is an audit record of a lifecycle transition.
type SessionEvent struct {
	Username string
	Kind     SessionEventKind
	At       time.Time
}
