package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestBackendMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackendMetrics(reg)
	m.ObserveRequest("list_bookings", "ok", 0.2)
	m.ObserveRequest("list_bookings", "ok", 0.1)
	m.ObserveRequest("list_bookings", "auth_expired", 0.1)

	if got := counterValue(t, m.requestsTotal.WithLabelValues("list_bookings", "ok")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("expected counter and histogram families, got %d", len(families))
	}
}

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveTransition("advance", "ok")
	m.ObserveSubmission("succeeded")
	m.ObserveAdminAction("approve", "ok")
	m.ObserveNotification("booking_submitted", true)
	m.ObserveNotification("booking_submitted", false)

	if got := counterValue(t, m.notifications.WithLabelValues("booking_submitted", "failed")); got != 1 {
		t.Fatalf("expected 1 failed notification, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BackendMetrics
	b.ObserveRequest("op", "ok", 0.1)
	var m *BookingMetrics
	m.ObserveTransition("advance", "ok")
	m.ObserveSubmission("failed")
	m.ObserveAdminAction("delete", "ok")
	m.ObserveNotification("x", true)
}
