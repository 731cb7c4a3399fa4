// Package metrics holds the Prometheus collectors of the price list server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Result label values for Operations
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultNoop    = "noop"
	ResultError   = "error"
)

// Metrics groups the collectors and the registry they are registered on
type Metrics struct {
	Registry *prometheus.Registry

	Operations   *prometheus.CounterVec
	Records      prometheus.Gauge
	GRPCRequests *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go runtime
// and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricelist_operations_total",
			Help: "Ledger operations by name and result.",
		}, []string{"operation", "result"}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pricelist_records",
			Help: "Number of price records across all days.",
		}),
		GRPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricelist_grpc_requests_total",
			Help: "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
	}

	reg.MustRegister(
		m.Operations,
		m.Records,
		m.GRPCRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveOperation counts one operation outcome. Safe on a nil receiver.
func (m *Metrics) ObserveOperation(operation, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, result).Inc()
}

// SetRecords sets the record gauge. Safe on a nil receiver.
func (m *Metrics) SetRecords(n int) {
	if m == nil {
		return
	}
	m.Records.Set(float64(n))
}

// ObserveRequest counts one gRPC request. Safe on a nil receiver.
func (m *Metrics) ObserveRequest(method, code string) {
	if m == nil {
		return
	}
	m.GRPCRequests.WithLabelValues(method, code).Inc()
}
