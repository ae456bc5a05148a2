// Package codec implements a self-describing binary encoding for the nine
// primary value types, where the first byte of the buffer is always the
// type tag and decode(encode(v)) == v for every primary value.
//
// No third-party serialization library in the example corpus fits a single
// self-describing scalar/vector primitive without a schema compiler (see
// DESIGN.md); the wire format here is intentionally small and uses only
// encoding/binary and math, preferring explicit, inspectable byte layouts
// over opaque generated code when no external format is actually being
// interop'd with.
package codec
