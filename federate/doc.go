// Package federate defines the Core contract the value-federate interface
// layer consumes, and two implementations: LocalCore, an in-process
// reference double used by every unit test in this module, and NATSCore, a
// JetStream KV–backed implementation used by the integration tests.
//
// Neither implementation is a general-purpose federate core — the global
// time-barrier algorithm, the federate-to-federate wire protocol, and
// message-federate routing remain explicit non-goals. Both only satisfy the
// narrow per-handle contract this layer already depends on.
package federate
