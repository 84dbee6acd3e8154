package domain

import "time"

// SessionID is the transport-assigned identifier of a single live connection.
type SessionID string

// Session binds one live transport connection to exactly one authenticated
// identity. Sessions are ephemeral: created by the gateway on admission,
// destroyed on disconnect. A user may own several concurrent sessions
// (multiple tabs or devices).
type Session struct {
	ID        SessionID
	UserID    string
	CreatedAt time.Time
}
