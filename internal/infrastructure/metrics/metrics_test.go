package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CallStarted()
	m.CallStarted()
	m.CallEnded("resolved_pay")
	m.FieldAnswered("name", "close")
	m.SideEffectFailed("sms")
	m.ObserveTurn("verifying", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveCalls))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallsEnded.WithLabelValues("resolved_pay")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FieldAnswers.WithLabelValues("name", "close")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectErr.WithLabelValues("sms")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CallStarted()
		m.CallEnded("resolved_no_pay")
		m.FieldAnswered("date_of_birth", "exact")
		m.ObserveTurn("disclosing", time.Now())
		m.SideEffectFailed("outcome")
	})
}
