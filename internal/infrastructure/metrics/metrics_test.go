package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.BalanceResolutions == nil || m.ReconcileTriggers == nil || m.HTTPRequests == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.BalanceResolutions.WithLabelValues("ledger", "success").Inc()
	m.ReconcileTriggers.WithLabelValues("initial_load").Inc()
	m.WithdrawalsSubmitted.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	found := false
	for _, mf := range metricFamilies {
		if mf.GetName() == "wallet_balance_resolutions_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected wallet_balance_resolutions_total to be registered")
	}
}
