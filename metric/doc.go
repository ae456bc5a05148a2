// Package metric provides Prometheus-based metrics for a running federate
// process: platform-level counters (Metrics, registered automatically) and
// the four input-layer counters the value-federate interface exposes
// (DecodeErrors, ChangeSuppressed, CallbackDispatch, UnitConversions).
//
// A MetricsRegistry owns one prometheus.Registry and both metric sets:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//	go server.Start()
//	defer server.Stop()
//
//	registry.InputMetrics().DecodeErrors.WithLabelValues("bus1.voltage").Inc()
//
// Service-specific metrics register through RegisterCounter/RegisterGauge/
// RegisterHistogram (and their Vec variants) on MetricsRegistry; duplicate
// registration under the same service/metric-name pair is rejected rather
// than silently replacing the prior collector.
package metric
