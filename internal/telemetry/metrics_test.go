package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserveRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveRegistration("create", "success")
	m.ObserveRegistration("create", "success")
	m.ObserveRegistration("create", "service_error")

	if got := testutil.ToFloat64(m.registrationAttempts.WithLabelValues("create", "success")); got != 2 {
		t.Fatalf("create/success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.registrationAttempts.WithLabelValues("create", "service_error")); got != 1 {
		t.Fatalf("create/service_error = %v, want 1", got)
	}
}

func TestMetricsSetVersions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SetVersions(1, 2, 3, 4, 5, 6)

	if got := testutil.ToFloat64(m.verSelf); got != 1 {
		t.Fatalf("verSelf = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.verReceivers); got != 6 {
		t.Fatalf("verReceivers = %v, want 6", got)
	}
}

func TestMetricsObserveFailover(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveFailover()
	m.ObserveFailover()

	if got := testutil.ToFloat64(m.discoveryFailovers); got != 2 {
		t.Fatalf("discoveryFailovers = %v, want 2", got)
	}
}
