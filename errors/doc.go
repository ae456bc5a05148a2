// Package errors provides standardized error handling patterns for the
// value-federate interface layer.
//
// # Overview
//
// The package implements a five-class error classification: Config (bad
// declaration), Lifecycle (mutation after the shape froze), Decode (a raw
// buffer failed to decode), Arithmetic (a unit-conversion saturation
// event), and Transport (a transient failure talking to the underlying
// core or message bus). Decode errors additionally carry the offending
// input's name and raw buffer length via DecodeError, never the buffer
// bytes.
//
// # Quick Start
//
//	if !knownType(target) {
//	    return errors.WrapConfig(errors.ErrUnknownType, "Input", "SetTarget", "target type validation")
//	}
//
//	if initialized {
//	    return errors.WrapLifecycle(errors.ErrShapeFrozen, "Input", "SetCallback", "post-init mutation")
//	}
//
//	if _, err := decode(raw); err != nil {
//	    return errors.WrapDecode(err, input.Name, len(raw))
//	}
//
// # Integration with errors.As/Is
//
//	var de *errors.DecodeError
//	if errors.As(err, &de) {
//	    log.Printf("input %s: %d raw bytes failed to decode", de.InputName, de.RawLen)
//	}
package errors
