package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the conversational assistant.
type AssistantMetrics struct {
	turnsTotal          *prometheus.CounterVec
	flowsTotal          *prometheus.CounterVec
	collaboratorLatency *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coachflow",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Total assistant turns by routed intent and outcome",
		}, []string{"intent", "outcome"}),
		flowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coachflow",
			Subsystem: "assistant",
			Name:      "flows_total",
			Help:      "Guided flows that finished, by flow and result",
		}, []string{"flow", "result"}),
		collaboratorLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coachflow",
			Subsystem: "assistant",
			Name:      "collaborator_seconds",
			Help:      "Latency of collaborator API calls made while handling a turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.flowsTotal, m.collaboratorLatency)
	return m
}

func (m *AssistantMetrics) ObserveTurn(intent, outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, outcome).Inc()
}

func (m *AssistantMetrics) ObserveFlow(flow, result string) {
	if m == nil {
		return
	}
	m.flowsTotal.WithLabelValues(flow, result).Inc()
}

func (m *AssistantMetrics) ObserveCollaborator(op string, failed bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.collaboratorLatency.WithLabelValues(op, status).Observe(seconds)
}
