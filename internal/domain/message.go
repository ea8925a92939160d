package domain

import (
	"sort"
	"time"
)

// Message is an anonymous note embedded in its owner's record.
type Message struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// SortMessagesNewestFirst orders messages by CreatedAt descending.
// Messages with equal timestamps keep their stored order.
func SortMessagesNewestFirst(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}
