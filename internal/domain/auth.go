package domain

import "time"

// Session is the snapshot of user flags carried by a signed session token.
// It is taken at login and does not follow later changes to the record.
type Session struct {
	UserID              string
	Username            string
	IsVerified          bool
	IsAcceptingMessages bool
	ExpiresAt           time.Time
}

// SessionFromUser snapshots the flags of u.
func SessionFromUser(u *User) Session {
	return Session{
		UserID:              u.ID,
		Username:            u.Username,
		IsVerified:          u.IsVerified,
		IsAcceptingMessages: u.IsAcceptingMessages,
	}
}
