package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCountsRequestsPerPathMethodStatus(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/admin/leads", "GET", 200, 5*time.Millisecond)
	m.RecordRequest("/admin/leads", "GET", 200, 7*time.Millisecond)
	m.RecordRequest("/admin/leads", "GET", 401, time.Millisecond)
	m.RecordRequest("/consultations", "POST", 201, 3*time.Millisecond)

	assert.Equal(t, int64(2), m.RequestTotal("/admin/leads", "GET", 200))
	assert.Equal(t, int64(1), m.RequestTotal("/admin/leads", "GET", 401))
	assert.Equal(t, int64(1), m.RequestTotal("/consultations", "POST", 201))
	assert.Zero(t, m.RequestTotal("/admin/leads", "DELETE", 200))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	m.RecordRequest("/x", "GET", 200, 0)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
	assert.Zero(t, m.RequestTotal("/x", "GET", 200))
}
