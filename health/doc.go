// Package health tracks the health status of the value-federate interface
// layer's components (inputs, the core connection) and aggregates them into
// a single reportable Status.
//
// Health states are three-valued: healthy, degraded, unhealthy. Monitor is
// a thread-safe map of component name to Status; AggregateHealth combines
// them with a conservative worst-case rule (any unhealthy component marks
// the whole system unhealthy).
//
// FromComponentHealth converts an InputHealth snapshot — what an input
// registry reports about one of its inputs — into a Status, sanitizing any
// error text along the way so a stray password or internal URL never ends
// up on the /health endpoint.
package health
