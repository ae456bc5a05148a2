package input

import "github.com/beroset/HELICS/value"

// Changed reports whether candidate differs "enough" from previous under
// delta to be treated as a new observable value. A tag change is always a
// change, regardless of delta. Numeric scalars, complex numbers, and
// vectors compare by distance against delta; strings, named points, and
// booleans ignore delta and compare by equality.
//
// delta == 0 degenerates to strict inequality: a publication that exactly
// repeats the stored value does not trigger a change.
func Changed(previous, candidate value.Value, delta float64) bool {
	if previous.Type() != candidate.Type() {
		return true
	}
	switch candidate.Type() {
	case value.Double, value.Int, value.Time:
		return numericDistance(previous, candidate) > delta
	case value.Complex, value.Vector, value.ComplexVector:
		d, err := value.LInfDistance(previous, candidate)
		if err != nil {
			return !previous.Equal(candidate)
		}
		return d > delta
	default:
		return !previous.Equal(candidate)
	}
}

func numericDistance(a, b value.Value) float64 {
	af := a.Convert(value.Double).AsDouble()
	bf := b.Convert(value.Double).AsDouble()
	d := af - bf
	if d < 0 {
		d = -d
	}
	return d
}
