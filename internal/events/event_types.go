package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user.registered"
	EventUserVerified     EventType = "user.verified"
	EventMessageReceived  EventType = "message.received"
	EventMessagesCleared  EventType = "messages.cleared"
	EventAccountDeleted   EventType = "account.deleted"
	EventAcceptingToggled EventType = "user.accepting_toggled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current UTC time.
func New(eventType EventType, userID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string `json:"username"`
	Resent   bool   `json:"resent"`
}

// UserVerifiedPayload payload.
type UserVerifiedPayload struct {
	Username string `json:"username"`
}

// MessageReceivedPayload carries no message content; only its size.
type MessageReceivedPayload struct {
	MessageID string `json:"message_id"`
	Length    int    `json:"length"`
}

// AcceptingToggledPayload payload.
type AcceptingToggledPayload struct {
	IsAcceptingMessages bool `json:"is_accepting_messages"`
}

// AccountDeletedPayload payload.
type AccountDeletedPayload struct {
	Username string `json:"username"`
}
