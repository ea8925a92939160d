package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortMessagesNewestFirst_StableForEqualTimestamps(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Minute)},
		{ID: "c", CreatedAt: base},
		{ID: "d", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "e", CreatedAt: base},
	}

	SortMessagesNewestFirst(messages)

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c", "e"}, ids)
}

func TestNewPendingUser_Defaults(t *testing.T) {
	u := NewPendingUser("alice", "a@x.com", "hash", "123456", time.Now())
	assert.False(t, u.IsVerified)
	assert.True(t, u.IsAcceptingMessages)
	assert.NotNil(t, u.Messages)
	assert.Empty(t, u.Messages)
}
