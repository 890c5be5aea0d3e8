package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestAssistantMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)
	m.ObserveTurn("add_client", "ok")
	m.ObserveTurn("add_client", "ok")
	m.ObserveFlow("schedule_session", "completed")
	m.ObserveCollaborator("create_client", false, 0.02)

	if got := testutil.ToFloat64(m.turnsTotal.WithLabelValues("add_client", "ok")); got != 2 {
		t.Fatalf("expected 2 turns, got %v", got)
	}
	if got := testutil.ToFloat64(m.flowsTotal.WithLabelValues("schedule_session", "completed")); got != 1 {
		t.Fatalf("expected 1 flow, got %v", got)
	}
	if n := testutil.CollectAndCount(m.collaboratorLatency); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestAssistantMetricsNilSafe(t *testing.T) {
	var m *AssistantMetrics
	m.ObserveTurn("help", "ok")
	m.ObserveFlow("add_client", "cancelled")
	m.ObserveCollaborator("list_clients", true, 0.1)
}

func TestAssistantMetricsCollaboratorSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)
	m.ObserveCollaborator("send_reminder", true, 0.3)
	m.ObserveCollaborator("send_reminder", true, 0.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() != "coachflow_assistant_collaborator_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelValue(metric, "op") == "send_reminder" && labelValue(metric, "status") == "error" {
				hist = metric.GetHistogram()
			}
		}
	}
	if hist == nil {
		t.Fatal("send_reminder error series not gathered")
	}
	if hist.GetSampleCount() != 2 {
		t.Fatalf("expected 2 samples, got %d", hist.GetSampleCount())
	}
	if sum := hist.GetSampleSum(); sum < 0.79 || sum > 0.81 {
		t.Fatalf("expected sample sum 0.8, got %v", sum)
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
