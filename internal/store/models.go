package store

import "time"

// Session identifies the signed-in user. It is constructed at login,
// handed explicitly to the API client, and mirrored here so a restart
// does not require signing in again.
type Session struct {
	Email     string
	Token     string
	UserID    string
	DeviceID  string
	CreatedAt time.Time
}

func (s *Session) SignedIn() bool {
	return s != nil && s.Token != ""
}

type Setting struct {
	Key   string
	Value string
}
