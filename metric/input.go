package metric

import "github.com/prometheus/client_golang/prometheus"

// InputMetrics are the four counters the value-federate interface layer
// exposes per input: decode failures, change-detector suppressions,
// callback dispatches, and unit conversions, each labelled by input name.
type InputMetrics struct {
	DecodeErrors     *prometheus.CounterVec
	ChangeSuppressed *prometheus.CounterVec
	CallbackDispatch *prometheus.CounterVec
	UnitConversions  *prometheus.CounterVec
}

func newInputMetrics() *InputMetrics {
	return &InputMetrics{
		DecodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helics",
				Subsystem: "input",
				Name:      "decode_errors_total",
				Help:      "Raw buffers that failed to decode under their claimed injection type.",
			},
			[]string{"input"},
		),
		ChangeSuppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helics",
				Subsystem: "input",
				Name:      "change_suppressed_total",
				Help:      "Updates whose distance from the stored value did not exceed the minimum-change threshold.",
			},
			[]string{"input"},
		),
		CallbackDispatch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helics",
				Subsystem: "input",
				Name:      "callback_dispatch_total",
				Help:      "Typed or notification callbacks invoked by the registry scan.",
			},
			[]string{"input"},
		),
		UnitConversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "helics",
				Subsystem: "input",
				Name:      "unit_conversions_total",
				Help:      "Values passed through a non-identity unit bridge on their way into an input.",
			},
			[]string{"input"},
		),
	}
}

// InputMetrics returns the registry's input-layer counters.
func (r *MetricsRegistry) InputMetrics() *InputMetrics {
	return r.inputMetrics
}
