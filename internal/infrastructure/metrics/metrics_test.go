package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistererRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.TransfersCreated == nil || m.TransferErrors == nil || m.OutboxPublished == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.TransfersCreated.WithLabelValues("cross_currency").Inc()
	m.AccountsCreated.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.TransfersCreated.WithLabelValues("cross_currency")); got != 1 {
		t.Fatalf("expected counter 1, got %v", got)
	}
}

func TestNewWithRegistererIsolatesRegistries(t *testing.T) {
	first := NewWithRegisterer(prometheus.NewRegistry())
	second := NewWithRegisterer(prometheus.NewRegistry())

	first.AccountsCreated.Inc()

	if got := testutil.ToFloat64(second.AccountsCreated); got != 0 {
		t.Fatalf("expected independent registries, got %v", got)
	}
}
