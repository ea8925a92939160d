package dto

import (
	"time"

	"github.com/aarushkx/speak-free/internal/domain"
)

// RegisterRequest payload for sign-up.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (RegisterRequest) messages() map[string]string {
	return map[string]string{
		"username.required": "Username must be at least 3 characters long",
		"username.min":      "Username must be at least 3 characters long",
		"username.max":      "Username can not be longer than 20 characters",
		"username.username": "Username can not contain special characters",
		"email.required":    "Invalid email address",
		"email.email":       "Invalid email address",
		"password.required": "Password must be at least 6 characters long",
		"password.min":      "Password must be at least 6 characters long",
	}
}

// UsernameQuery is the query string of the uniqueness check.
type UsernameQuery struct {
	Username string `query:"username" json:"username" validate:"required,min=3,max=20,username"`
}

func (UsernameQuery) messages() map[string]string {
	return map[string]string{
		"username.required": "Invalid query parameters",
		"username.min":      "Username must be at least 3 characters long",
		"username.max":      "Username can not be longer than 20 characters",
		"username.username": "Username can not contain special characters",
	}
}

// VerifyCodeRequest payload. The code format is not checked here so a wrong
// code always reaches the expiry/validity decision.
type VerifyCodeRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

func (VerifyCodeRequest) messages() map[string]string {
	return map[string]string{
		"username.required": "Username and verification code are required",
		"code.required":     "Username and verification code are required",
	}
}

// LoginRequest payload; identifier is a username or an e-mail.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func (LoginRequest) messages() map[string]string {
	return map[string]string{
		"identifier.required": "Username/e-mail and password are required",
		"password.required":   "Username/e-mail and password are required",
	}
}

// SessionResponse describes the authenticated caller.
type SessionResponse struct {
	ID                  string    `json:"_id"`
	Username            string    `json:"username"`
	IsVerified          bool      `json:"isVerified"`
	IsAcceptingMessages bool      `json:"isAcceptingMessages"`
	ExpiresAt           time.Time `json:"expiresAt"`
}

// NewSessionResponse maps a session snapshot.
func NewSessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		ID:                  s.UserID,
		Username:            s.Username,
		IsVerified:          s.IsVerified,
		IsAcceptingMessages: s.IsAcceptingMessages,
		ExpiresAt:           s.ExpiresAt,
	}
}

// AuthResponse carries a freshly minted session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerifiedUser is returned after a successful verification.
type VerifiedUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserSummary is one public directory entry.
type UserSummary struct {
	ID                  string `json:"_id"`
	Username            string `json:"username"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
}

// NewUserSummaries maps directory entries.
func NewUserSummaries(entries []domain.DirectoryEntry) []UserSummary {
	out := make([]UserSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewUserSummary(e))
	}
	return out
}

// NewUserSummary maps one directory entry.
func NewUserSummary(e domain.DirectoryEntry) UserSummary {
	return UserSummary{ID: e.ID, Username: e.Username, IsAcceptingMessages: e.IsAcceptingMessages}
}
