package metrics_test

import (
	"testing"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.ObserveRequest("GET", "/api/health", 200, 5*time.Millisecond)
	m.UploadSucceeded(false)
	m.UploadSucceeded(true)
	m.UploadFailed()

	count, err := testutil.GatherAndCount(reg,
		"screenshots_http_requests_total",
		"screenshots_uploads_total",
		"screenshots_duplicates_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "one request series, two upload outcomes, one duplicate counter")
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Second)
		m.UploadSucceeded(true)
		m.UploadFailed()
	})
}
