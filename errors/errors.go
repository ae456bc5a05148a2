// Package errors provides standardized error classification and wrapping for
// the value-federate interface layer: configuration errors, lifecycle
// errors, decode errors, arithmetic-domain errors, and transport errors.
package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/beroset/HELICS/pkg/retry"
)

// Class represents the classification of an error raised by the value-federate layer.
type Class int

const (
	// ClassConfig represents a configuration error: unrecognised target type,
	// non-commensurable units, or a callback signature mismatch.
	ClassConfig Class = iota
	// ClassLifecycle represents an attempt to mutate shape after initialization,
	// or to set a default after execution begins.
	ClassLifecycle
	// ClassDecode represents a raw buffer that failed to decode under its claimed
	// injection type.
	ClassDecode
	// ClassArithmetic represents an integer-saturation event during unit conversion.
	ClassArithmetic
	// ClassTransport represents a failure reaching the federate core collaborator
	// itself (connection, timeout) rather than the value it carries.
	ClassTransport
)

// String returns the string representation of Class.
func (c Class) String() string {
	switch c {
	case ClassConfig:
		return "config"
	case ClassLifecycle:
		return "lifecycle"
	case ClassDecode:
		return "decode"
	case ClassArithmetic:
		return "arithmetic"
	case ClassTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Standard sentinel errors for common conditions.
var (
	// Configuration errors
	ErrUnknownType        = errors.New("unrecognised target type")
	ErrNonCommensurable   = errors.New("input and output units are not commensurable")
	ErrCallbackMismatch   = errors.New("callback signature does not match declared target type")
	ErrInvalidMultiPolicy = errors.New("unrecognised multi-input policy")
	ErrUnknownUnit        = errors.New("unit expression not recognised")

	// Lifecycle errors
	ErrShapeFrozen      = errors.New("input shape is frozen after initialization")
	ErrExecutionStarted = errors.New("default value cannot be set after execution begins")
	ErrInputClosed      = errors.New("input is closed")

	// Decode errors
	ErrTruncatedBuffer = errors.New("raw buffer is truncated for its claimed type")
	ErrUnknownTag      = errors.New("raw buffer tag does not match a known primary type")
)

// ClassifiedError wraps an error with its classification and call-site context.
type ClassifiedError struct {
	Class     Class
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface.
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error.
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// ClassOf returns the classification of err, or false if err is not a ClassifiedError.
func ClassOf(err error) (Class, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class, true
	}
	return 0, false
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool { return classIs(err, ClassConfig) }

// IsLifecycle reports whether err is a lifecycle error.
func IsLifecycle(err error) bool { return classIs(err, ClassLifecycle) }

// IsDecode reports whether err is a decode error.
func IsDecode(err error) bool { return classIs(err, ClassDecode) }

// IsArithmetic reports whether err is an arithmetic-domain error.
func IsArithmetic(err error) bool { return classIs(err, ClassArithmetic) }

// IsTransport reports whether err is a core-collaborator connectivity error.
func IsTransport(err error) bool { return classIs(err, ClassTransport) }

func classIs(err error, class Class) bool {
	c, ok := ClassOf(err)
	return ok && c == class
}

func newClassified(class Class, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapConfig wraps err as a configuration error with context.
func WrapConfig(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassConfig, wrapped, component, method, wrapped.Error())
}

// WrapLifecycle wraps err as a lifecycle error with context.
func WrapLifecycle(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassLifecycle, wrapped, component, method, wrapped.Error())
}

// WrapTransient wraps err as a transport error: a retryable failure to reach
// the federate core (connection drop, timeout).
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(ClassTransport, wrapped, component, method, wrapped.Error())
}

// WrapInvalid wraps err as a configuration error raised while validating
// constructor options or call arguments. An alias of WrapConfig kept under
// this name because that is what natsclient's option validation calls.
func WrapInvalid(err error, component, method, action string) error {
	return WrapConfig(err, component, method, action)
}

// WrapFatal wraps err as an unrecoverable infrastructure failure — a metrics
// setup step that cannot be retried and should abort startup. Treated
// as a transport-class error since it always originates below the
// value-federate layer's own four classes.
func WrapFatal(err error, component, method, action string) error {
	return WrapTransient(err, component, method, action)
}

// DecodeError records a failure to decode a raw buffer under its claimed
// injection type: it surfaces the input name and byte length, never the
// buffer contents.
type DecodeError struct {
	InputName string
	RawLen    int
	Err       error
}

// Error implements the error interface.
func (de *DecodeError) Error() string {
	return fmt.Sprintf("input %q: decode failed for %d-byte buffer: %v", de.InputName, de.RawLen, de.Err)
}

// Unwrap returns the underlying error.
func (de *DecodeError) Unwrap() error { return de.Err }

// WrapDecode wraps err as a DecodeError for the named input and raw length.
func WrapDecode(err error, inputName string, rawLen int) error {
	if err == nil {
		return nil
	}
	return &DecodeError{InputName: inputName, RawLen: rawLen, Err: err}
}

// ArithmeticError records an integer-saturation event during unit conversion.
// It is only constructed when the caller has opted in to saturation
// reporting; otherwise silent.
type ArithmeticError struct {
	InputName string
	Value     float64
	Saturated int64
}

// Error implements the error interface.
func (ae *ArithmeticError) Error() string {
	return fmt.Sprintf("input %q: value %g saturated to %d during unit conversion", ae.InputName, ae.Value, ae.Saturated)
}

// NewArithmeticError constructs an ArithmeticError for inputName, recording
// the pre-conversion float value and the int64 it was clamped to. Like
// DecodeError, it is a bare typed error rather than a ClassifiedError: it
// already carries its own component-scoped context, and IsArithmetic/ClassOf
// are for the transport/config/lifecycle failures the layer classifies
// generically.
func NewArithmeticError(inputName string, value float64, saturated int64) error {
	return &ArithmeticError{InputName: inputName, Value: value, Saturated: saturated}
}

// RetryConfig defines configuration for retrying operations against the
// Core collaborator (e.g. NATSCore KV calls); it adapts to pkg/retry.Config.
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a sensible default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// ToRetryConfig converts RetryConfig to pkg/retry's Config type.
func (rc RetryConfig) ToRetryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:  rc.MaxRetries + 1,
		InitialDelay: rc.InitialDelay,
		MaxDelay:     rc.MaxDelay,
		Multiplier:   rc.BackoffFactor,
		AddJitter:    true,
	}
}
