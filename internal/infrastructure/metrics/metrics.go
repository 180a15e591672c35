package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks call volume, verification answers, and turn latency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CallsStarted  prometheus.Counter
	CallsEnded    *prometheus.CounterVec
	ActiveCalls   prometheus.Gauge
	FieldAnswers  *prometheus.CounterVec
	TurnDuration  *prometheus.HistogramVec
	SideEffectErr *prometheus.CounterVec
}

// New registers every call metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CallsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "callverify_calls_started_total",
			Help: "Total number of calls started",
		}),
		CallsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "callverify_calls_ended_total",
			Help: "Total number of calls that reached a terminal outcome, by outcome",
		}, []string{"outcome"}),
		ActiveCalls: f.NewGauge(prometheus.GaugeOpts{
			Name: "callverify_active_calls",
			Help: "Calls currently held in the session registry",
		}),
		FieldAnswers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "callverify_field_answers_total",
			Help: "Verification answers scored, by field and match result",
		}, []string{"field", "result"}),
		TurnDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "callverify_turn_duration_seconds",
			Help:    "Duration of one caller turn, by call phase at the start of the turn",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"phase"}),
		SideEffectErr: f.NewCounterVec(prometheus.CounterOpts{
			Name: "callverify_side_effect_errors_total",
			Help: "Failed outcome writes, transcript uploads and SMS sends",
		}, []string{"kind"}),
	}
}

func (m *Metrics) CallStarted() {
	if m == nil {
		return
	}
	m.CallsStarted.Inc()
	m.ActiveCalls.Inc()
}

// CallEnded records a terminal outcome. Pass an empty outcome for a hang-up or idle eviction.
func (m *Metrics) CallEnded(outcome string) {
	if m == nil {
		return
	}
	m.ActiveCalls.Dec()
	if outcome != "" {
		m.CallsEnded.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) FieldAnswered(field, result string) {
	if m == nil {
		return
	}
	m.FieldAnswers.WithLabelValues(field, result).Inc()
}

// ObserveTurn records the duration of a turn. Call with time.Now() at the start of the turn.
func (m *Metrics) ObserveTurn(phase string, start time.Time) {
	if m == nil {
		return
	}
	m.TurnDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SideEffectFailed(kind string) {
	if m == nil {
		return
	}
	m.SideEffectErr.WithLabelValues(kind).Inc()
}
