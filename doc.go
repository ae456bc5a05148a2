// Package HELICS implements the value-federate interface layer of a
// co-simulation runtime: typed tagged values, a compact wire codec, a
// linear unit bridge, change detection, and the Input object and registry
// that a federate uses to consume publications from other federates.
//
// # Architecture
//
//	┌───────────────────────────┐
//	│      input.Registry       │  Scans the core each cycle, decodes
//	│  (input.Input per handle) │  pending updates, dispatches callbacks
//	└─────────────┬─────────────┘
//	              │ decode / bridge / detect
//	┌─────────────┴─────────────┐
//	│  codec, units, value       │  Wire format, unit conversion,
//	│                            │  tagged-value container + arithmetic
//	└─────────────┬─────────────┘
//	              │ raw bytes by handle
//	┌─────────────┴─────────────┐
//	│      federate.Core         │  External collaborator: transport and
//	│ (LocalCore / NATSCore)     │  time coordination, both non-goals here
//	└────────────────────────────┘
//
// # Packages
//
//   - value: the tagged Value union and its type-conversion table
//   - codec: self-describing binary encoding for Value
//   - units: unit parsing and the linear scale/offset bridge
//   - input: Input, Registry, change detection, multi-input reduction
//   - federate: the Core collaborator interface and two implementations
//   - errors: classified error wrapping shared across the module
//   - metric: Prometheus counters for the input pipeline
//   - health: component health reporting
//   - telemetry: structured logging, optionally mirrored to NATS
//
// Wire transport, time coordination, and publication-side (output)
// interfaces are out of scope for this layer; see federate.Core for the
// boundary this package assumes.
package helics
