package input

import (
	"strings"

	herrors "github.com/beroset/HELICS/errors"
	"github.com/beroset/HELICS/value"
)

// Policy is the multi-input reduction policy applied when more than one
// publication is bound to an input via AddTarget.
type Policy int

const (
	// Passthrough is the default policy. AddTarget does not reject extra
	// targets under it; with more than one, Reduce keeps the last value.
	Passthrough Policy = iota
	And
	Or
	Sum
	Diff
	Max
	Min
	Average
	Vectorize
)

// String returns the lower-case declaration name for the policy.
func (p Policy) String() string {
	switch p {
	case Passthrough:
		return "passthrough"
	case And:
		return "and"
	case Or:
		return "or"
	case Sum:
		return "sum"
	case Diff:
		return "diff"
	case Max:
		return "max"
	case Min:
		return "min"
	case Average:
		return "average"
	case Vectorize:
		return "vectorize"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a declaration name (case-insensitive) to a Policy.
func ParsePolicy(name string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "passthrough":
		return Passthrough, true
	case "and", "and_operation":
		return And, true
	case "or", "or_operation":
		return Or, true
	case "sum":
		return Sum, true
	case "diff", "difference":
		return Diff, true
	case "max", "maximum":
		return Max, true
	case "min", "minimum":
		return Min, true
	case "average", "avg":
		return Average, true
	case "vectorize":
		return Vectorize, true
	default:
		return 0, false
	}
}

// TypedCallback is a tagged union of the nine typed callback signatures an
// Input accepts via SetCallback. Exactly one field is set, by whichever of
// the On* constructors built it, and target records its value type.
type TypedCallback struct {
	target value.Type

	onDouble        func(v float64, t value.SimTime)
	onInt           func(v int64, t value.SimTime)
	onString        func(v string, t value.SimTime)
	onComplex       func(v complex128, t value.SimTime)
	onVector        func(v []float64, t value.SimTime)
	onComplexVector func(v []complex128, t value.SimTime)
	onNamedPoint    func(v value.NamedPointValue, t value.SimTime)
	onBool          func(v bool, t value.SimTime)
	onTime          func(v value.SimTime, t value.SimTime)
}

// Target returns the primary type this callback expects its decoded value
// to arrive as.
func (c TypedCallback) Target() value.Type { return c.target }

func OnDouble(f func(v float64, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.Double, onDouble: f}
}
func OnInt(f func(v int64, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.Int, onInt: f}
}
func OnString(f func(v string, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.String, onString: f}
}
func OnComplex(f func(v complex128, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.Complex, onComplex: f}
}
func OnVector(f func(v []float64, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.Vector, onVector: f}
}
func OnComplexVector(f func(v []complex128, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.ComplexVector, onComplexVector: f}
}
func OnNamedPoint(f func(v value.NamedPointValue, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.NamedPoint, onNamedPoint: f}
}
func OnBool(f func(v bool, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.Bool, onBool: f}
}
func OnTime(f func(v value.SimTime, t value.SimTime)) TypedCallback {
	return TypedCallback{target: value.Time, onTime: f}
}

// dispatch decodes v to the callback's declared target type via
// value.Convert and invokes the matching arm.
func (c TypedCallback) dispatch(v value.Value, t value.SimTime) {
	converted := v.Convert(c.target)
	switch c.target {
	case value.Double:
		c.onDouble(converted.AsDouble(), t)
	case value.Int:
		c.onInt(converted.AsInt(), t)
	case value.String:
		c.onString(converted.AsString(), t)
	case value.Complex:
		c.onComplex(converted.AsComplex(), t)
	case value.Vector:
		c.onVector(converted.AsVector(), t)
	case value.ComplexVector:
		c.onComplexVector(converted.AsComplexVector(), t)
	case value.NamedPoint:
		c.onNamedPoint(converted.AsNamedPoint(), t)
	case value.Bool:
		c.onBool(converted.AsBool(), t)
	case value.Time:
		c.onTime(converted.AsTime(), t)
	}
}

// errCustomCallback is returned when SetCallback is called on an input
// declared as a custom (non-primary) type: custom values never pass through
// the tagged container, so none of the nine typed signatures can decode
// them.
var errCustomCallback = herrors.WrapConfig(herrors.ErrCallbackMismatch, "input", "SetCallback", "custom-type inputs do not support typed callbacks")
