package model

import "time"

// AuthEvent identifies a session state transition.
type AuthEvent string

const (
	AuthEventSignedIn       AuthEvent = "signed_in"
	AuthEventSignedOut      AuthEvent = "signed_out"
	AuthEventTokenRefreshed AuthEvent = "token_refreshed"
)

// SessionListener receives every session change. The session is nil when
// the event is a sign-out.
type SessionListener func(event AuthEvent, session *Session)

// Session is a server-issued, time-bounded proof of authentication.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}
