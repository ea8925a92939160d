package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordAndSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/send-message", "POST", 201, 10*time.Millisecond)
	m.RecordRequest("/api/send-message", "POST", 201, 30*time.Millisecond)
	m.RecordError("/api/send-message", "POST", "NOT_ACCEPTING")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/send-message|POST|201"])
	assert.Equal(t, int64(20), snap.AvgMs["/api/send-message|POST|201"])
	assert.Equal(t, int64(1), snap.Errors["/api/send-message|POST|NOT_ACCEPTING"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}
