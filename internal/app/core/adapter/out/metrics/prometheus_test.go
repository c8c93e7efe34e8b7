package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.ObserveOperation("transfer", "success", 5*time.Millisecond)
	m.ObserveOperation("transfer", "success", 7*time.Millisecond)
	m.ObserveOperation("transfer", "insufficient_balance", time.Millisecond)

	if got := testutil.ToFloat64(m.operations.WithLabelValues("transfer", "success")); got != 2 {
		t.Fatalf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("transfer", "insufficient_balance")); got != 1 {
		t.Fatalf("insufficient count = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.duration, "account_ledger_operation_duration_seconds"); n != 1 {
		t.Fatalf("histogram series = %d, want 1", n)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 3 {
		t.Fatalf("gathered series = %d (%v), want 3", n, err)
	}
}
