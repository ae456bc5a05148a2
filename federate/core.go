package federate

import "github.com/beroset/HELICS/value"

// Handle is the opaque, stable identifier the core assigns to an interface.
// It is never interpreted by the value-federate layer beyond equality
// comparison.
type Handle string

// NotificationFunc is the untyped callback the core invokes when a handle's
// raw buffer changes: set-input-notification(handle, callback) where the
// callback receives (input, time).
type NotificationFunc func(h Handle, t value.SimTime)

// Core is the external Federate Core collaborator: it owns the wire
// transport and time coordination (both explicit non-goals here) and
// exposes raw value bytes by handle to the value-federate layer above it.
type Core interface {
	// Register creates (or returns, if name already exists) a handle for an
	// input named name. Every Core implementation needs some way to mint
	// handles; the value-federate layer only ever treats the result as
	// opaque.
	Register(name string) Handle

	// PendingUpdates returns the handles whose raw buffer changed since the
	// last call. The returned set is frozen for the duration of the
	// registry's scan.
	PendingUpdates() []Handle

	// GetRaw returns the most recent raw buffer for h, and whether one has
	// ever been published.
	GetRaw(h Handle) ([]byte, bool)

	// IsUpdated reports whether h has a pending buffer not yet consumed by
	// the registry.
	IsUpdated(h Handle) bool

	GetInjectionType(h Handle) string
	GetInjectionUnits(h Handle) string
	GetExtractionType(h Handle) string
	GetExtractionUnits(h Handle) string
	GetLastUpdateTime(h Handle) value.SimTime

	AddTarget(h Handle, name string) error
	RemoveTarget(h Handle, name string) error

	SetOption(h Handle, code int, val int)
	GetOption(h Handle, code int) int

	SetDefaultRaw(h Handle, raw []byte)

	// SetInputNotification installs cb to be invoked whenever h's raw buffer
	// changes. Only one notification function is retained per handle.
	SetInputNotification(h Handle, cb NotificationFunc)

	// CloseInterface severs h from the core. Idempotent.
	CloseInterface(h Handle)
}
