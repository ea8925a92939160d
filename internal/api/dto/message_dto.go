package dto

import (
	"time"

	"github.com/aarushkx/speak-free/internal/domain"
)

// AcceptMessagesRequest toggles message acceptance. A pointer so false is distinguishable from absent.
type AcceptMessagesRequest struct {
	AcceptMessages *bool `json:"acceptMessages" validate:"required"`
}

func (AcceptMessagesRequest) messages() map[string]string {
	return map[string]string{
		"acceptMessages.required": "acceptMessages must be a boolean",
	}
}

// SendMessageRequest is posted by anonymous visitors. Length limits are a
// presentation concern; only presence is enforced server-side.
type SendMessageRequest struct {
	Username string `json:"username" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (SendMessageRequest) messages() map[string]string {
	return map[string]string{
		"username.required": "Username and content are required",
		"content.required":  "Username and content are required",
	}
}

// MessageResponse is one inbox item.
type MessageResponse struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessageResponses maps domain messages preserving order.
func NewMessageResponses(messages []domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out
}
