package input

import (
	herrors "github.com/beroset/HELICS/errors"
	"github.com/beroset/HELICS/value"
)

// Reduce combines the decoded values of every target bound to an input for
// one cycle into the single value the input stores, following policy.
// values is in target registration order, which vectorize preserves.
// Reduce requires at least one value; the registry never calls it for an
// input with zero pending targets.
func Reduce(policy Policy, values []value.Value) (value.Value, error) {
	if len(values) == 0 {
		return value.Value{}, herrors.WrapConfig(herrors.ErrInvalidMultiPolicy, "input", "Reduce", "no values to reduce")
	}
	if len(values) == 1 && policy != Vectorize {
		return values[0], nil
	}
	switch policy {
	case Passthrough:
		// AddTarget does not reject a second target under Passthrough.
		// With more than one value here, take the last writer, matching a
		// single-target input's normal "newest publication wins" behavior.
		return values[len(values)-1], nil
	case And:
		result := true
		for _, v := range values {
			result = result && v.Convert(value.Bool).AsBool()
		}
		return value.NewBool(result), nil
	case Or:
		result := false
		for _, v := range values {
			result = result || v.Convert(value.Bool).AsBool()
		}
		return value.NewBool(result), nil
	case Sum:
		var sum float64
		for _, v := range values {
			sum += v.Convert(value.Double).AsDouble()
		}
		return value.NewDouble(sum), nil
	case Diff:
		d := values[0].Convert(value.Double).AsDouble()
		for _, v := range values[1:] {
			d -= v.Convert(value.Double).AsDouble()
		}
		return value.NewDouble(d), nil
	case Max:
		m := values[0].Convert(value.Double).AsDouble()
		for _, v := range values[1:] {
			if f := v.Convert(value.Double).AsDouble(); f > m {
				m = f
			}
		}
		return value.NewDouble(m), nil
	case Min:
		m := values[0].Convert(value.Double).AsDouble()
		for _, v := range values[1:] {
			if f := v.Convert(value.Double).AsDouble(); f < m {
				m = f
			}
		}
		return value.NewDouble(m), nil
	case Average:
		var sum float64
		for _, v := range values {
			sum += v.Convert(value.Double).AsDouble()
		}
		return value.NewDouble(sum / float64(len(values))), nil
	case Vectorize:
		vf := make([]float64, len(values))
		for i, v := range values {
			vf[i] = v.Convert(value.Double).AsDouble()
		}
		return value.NewVector(vf), nil
	default:
		return value.Value{}, herrors.WrapConfig(herrors.ErrInvalidMultiPolicy, "input", "Reduce", policy.String())
	}
}
