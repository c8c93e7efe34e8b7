package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

var _ usecase.Metrics = (*PrometheusMetrics)(nil)

// PrometheusMetrics 以 Prometheus 記錄每個操作的次數與耗時
type PrometheusMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewPrometheusMetrics 在 reg 上註冊指標，reg 為 nil 時不註冊 (測試用)
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "account_ledger_operations_total",
			Help: "Total number of account ledger operations by outcome",
		}, []string{"operation", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "account_ledger_operation_duration_seconds",
			Help:    "Latency of account ledger operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (m *PrometheusMetrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
