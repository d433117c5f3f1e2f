package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics contadores e histogramas del pipeline de cadastro.
type IntakeMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	dispatchTotal      *prometheus.CounterVec
	auditFailuresTotal prometheus.Counter
	stageDuration      *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "submissions_total",
			Help:      "Cadastros recibidos por resultado",
		}, []string{"outcome"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "dispatch_total",
			Help:      "Envíos a la API externa por resultado",
		}, []string{"outcome"}),
		auditFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "audit_failures_total",
			Help:      "Entradas de log de envío que no se pudieron escribir",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "stage_duration_seconds",
			Help:      "Duración de cada etapa del pipeline",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.dispatchTotal, m.auditFailuresTotal, m.stageDuration)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *IntakeMetrics) ObserveDispatch(outcome string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(outcome).Inc()
}

func (m *IntakeMetrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailuresTotal.Inc()
}

func (m *IntakeMetrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}
