package domain

import "time"

// User is an account that receives anonymous messages on its public profile.
type User struct {
	ID                     string
	Username               string
	Email                  string
	PasswordHash           string
	VerificationCode       string
	VerificationCodeExpiry time.Time
	IsVerified             bool
	IsAcceptingMessages    bool
	Messages               []Message
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewPendingUser builds an unverified account that accepts messages by default.
func NewPendingUser(username, email, passwordHash, code string, expiry time.Time) *User {
	return &User{
		Username:               username,
		Email:                  email,
		PasswordHash:           passwordHash,
		VerificationCode:       code,
		VerificationCodeExpiry: expiry,
		IsVerified:             false,
		IsAcceptingMessages:    true,
		Messages:               []Message{},
	}
}

// DirectoryEntry is the public projection of a verified user.
type DirectoryEntry struct {
	ID                  string
	Username            string
	IsAcceptingMessages bool
	CreatedAt           time.Time
}
