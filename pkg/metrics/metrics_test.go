package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReference(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReference(OutcomeProduced)
	m.ObserveReference(OutcomeProduced)
	m.ObserveReference(OutcomeSkipped)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReferencesTotal.WithLabelValues(OutcomeProduced)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReferencesTotal.WithLabelValues(OutcomeSkipped)))
}

func TestObserveBytes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBytes(100, 40)
	m.ObserveBytes(10, 5)

	assert.Equal(t, 110.0, testutil.ToFloat64(m.PurgeBytesTotal.WithLabelValues("in")))
	assert.Equal(t, 45.0, testutil.ToFloat64(m.PurgeBytesTotal.WithLabelValues("out")))
}

func TestNewRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RequestsRejectedTotal.WithLabelValues("no_stylesheets").Inc()

	n, err := testutil.GatherAndCount(reg, "purge_requests_rejected_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second set of collectors on the same registry is a duplicate registration.
	assert.Panics(t, func() { New(reg) })
}
