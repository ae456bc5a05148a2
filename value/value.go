package value

import (
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	herrors "github.com/beroset/HELICS/errors"
)

// Type identifies one of the nine primary value types. The numeric values
// are part of the serialized default tag and must never change.
type Type int

const (
	Double Type = iota // 0
	Int                // 1
	String             // 2
	Complex            // 3
	Vector             // 4, ordered sequence of double
	ComplexVector      // 5, ordered sequence of complex
	NamedPoint         // 6
	Bool               // 7
	Time               // 8, simulation time
)

// String returns the lower-case type name used in declarations.
func (t Type) String() string {
	switch t {
	case Double:
		return "double"
	case Int:
		return "int"
	case String:
		return "string"
	case Complex:
		return "complex"
	case Vector:
		return "vector"
	case ComplexVector:
		return "complex_vector"
	case NamedPoint:
		return "named_point"
	case Bool:
		return "bool"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// ParseType maps a declaration type name (case-insensitive) to a Type.
// "def" and "unknown" are valid declaration aliases but have no Type value
// of their own; callers check for them before calling ParseType.
func ParseType(name string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "double":
		return Double, true
	case "int", "integer":
		return Int, true
	case "string":
		return String, true
	case "complex":
		return Complex, true
	case "vector":
		return Vector, true
	case "complex_vector":
		return ComplexVector, true
	case "named_point":
		return NamedPoint, true
	case "bool", "boolean":
		return Bool, true
	case "time":
		return Time, true
	default:
		return 0, false
	}
}

// NamedPointValue is the payload for the NamedPoint primary type: a name and
// a numeric value.
type NamedPointValue struct {
	Name  string
	Value float64
}

// SimTime is a fixed-point simulation timestamp in nanoseconds; it orders by
// plain integer comparison.
type SimTime int64

// Seconds returns t as a floating-point number of seconds.
func (t SimTime) Seconds() float64 { return float64(t) / 1e9 }

// SimTimeFromSeconds builds a SimTime from a floating-point second count.
func SimTimeFromSeconds(s float64) SimTime { return SimTime(math.Round(s * 1e9)) }

// Value holds exactly one of the nine primary types, with the tag always
// matching the inhabited payload.
type Value struct {
	tag Type

	f  float64
	i  int64
	b  bool
	t  SimTime
	s  string
	c  complex128
	vf []float64
	vc []complex128
	np NamedPointValue
}

// Type returns the value's current tag.
func (v Value) Type() Type { return v.tag }

// Constructors. Each fixes the tag to match its payload, preserving the
// container invariant by construction.

func NewDouble(f float64) Value             { return Value{tag: Double, f: f} }
func NewInt(i int64) Value                  { return Value{tag: Int, i: i} }
func NewString(s string) Value              { return Value{tag: String, s: s} }
func NewComplex(c complex128) Value         { return Value{tag: Complex, c: c} }
func NewVector(vf []float64) Value          { return Value{tag: Vector, vf: vf} }
func NewComplexVector(vc []complex128) Value { return Value{tag: ComplexVector, vc: vc} }
func NewNamedPoint(name string, val float64) Value {
	return Value{tag: NamedPoint, np: NamedPointValue{Name: name, Value: val}}
}
func NewBool(b bool) Value    { return Value{tag: Bool, b: b} }
func NewTime(t SimTime) Value { return Value{tag: Time, t: t} }

// Zero returns the zero value for t (empty string, 0.0, false, etc).
func Zero(t Type) Value {
	switch t {
	case Double:
		return NewDouble(0)
	case Int:
		return NewInt(0)
	case String:
		return NewString("")
	case Complex:
		return NewComplex(0)
	case Vector:
		return NewVector(nil)
	case ComplexVector:
		return NewComplexVector(nil)
	case NamedPoint:
		return NewNamedPoint("", 0)
	case Bool:
		return NewBool(false)
	case Time:
		return NewTime(0)
	default:
		return Value{}
	}
}

// Raw accessors. Each panics if called against the wrong tag; callers that
// don't know the tag ahead of time should use Convert first.

func (v Value) AsDouble() float64             { v.mustBe(Double); return v.f }
func (v Value) AsInt() int64                  { v.mustBe(Int); return v.i }
func (v Value) AsString() string              { v.mustBe(String); return v.s }
func (v Value) AsComplex() complex128         { v.mustBe(Complex); return v.c }
func (v Value) AsVector() []float64           { v.mustBe(Vector); return v.vf }
func (v Value) AsComplexVector() []complex128 { v.mustBe(ComplexVector); return v.vc }
func (v Value) AsNamedPoint() NamedPointValue  { v.mustBe(NamedPoint); return v.np }
func (v Value) AsBool() bool                  { v.mustBe(Bool); return v.b }
func (v Value) AsTime() SimTime               { v.mustBe(Time); return v.t }

func (v Value) mustBe(t Type) {
	if v.tag != t {
		panic(fmt.Sprintf("value: tag mismatch: have %s, want %s", v.tag, t))
	}
}

// Convert returns v converted to Type to. Conversion is a no-op when
// v.Type() already equals to.
func (v Value) Convert(to Type) Value {
	if v.tag == to {
		return v
	}
	switch to {
	case Double:
		return NewDouble(v.toFloat64())
	case Int:
		return NewInt(v.toInt64())
	case String:
		return NewString(v.toString())
	case Complex:
		return NewComplex(v.toComplex128())
	case Vector:
		return NewVector(v.toVector())
	case ComplexVector:
		return NewComplexVector(v.toComplexVector())
	case NamedPoint:
		return v.toNamedPoint()
	case Bool:
		return NewBool(v.toBool())
	case Time:
		return NewTime(SimTimeFromSeconds(v.toFloat64()))
	default:
		return Zero(to)
	}
}

// toFloat64 implements the numeric pivot used by every other conversion.
func (v Value) toFloat64() float64 {
	switch v.tag {
	case Double:
		return v.f
	case Int:
		return float64(v.i)
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0
		}
		return f
	case Complex:
		return real(v.c)
	case Vector:
		if len(v.vf) == 0 {
			return 0
		}
		return v.vf[0]
	case ComplexVector:
		if len(v.vc) == 0 {
			return 0
		}
		return real(v.vc[0])
	case NamedPoint:
		return v.np.Value
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Time:
		return v.t.Seconds()
	default:
		return 0
	}
}

// toInt64 narrows through float64, saturating out-of-range values to the
// destination's min/max; NaN saturates to 0.
func (v Value) toInt64() int64 {
	if v.tag == Int {
		return v.i
	}
	if v.tag == String {
		if i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return i
		}
		// fall through to the float pivot for decimal-looking strings like "3.9"
	}
	return SaturateInt64(v.toFloat64())
}

// SaturateInt64 clamps f to the representable int64 range. Exported so
// units.Map.ApplyInt can reuse the exact same rule when it rounds a converted
// value back into an integer-typed input.
func SaturateInt64(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

// toString implements "any numeric → string: canonical decimal form with
// full round-tripping precision for doubles" and the named-point/bool rules.
func (v Value) toString() string {
	switch v.tag {
	case String:
		return v.s
	case Double:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Complex:
		return formatComplex(v.c)
	case NamedPoint:
		return v.np.Name
	case Vector:
		parts := make([]string, len(v.vf))
		for i, f := range v.vf {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case ComplexVector:
		parts := make([]string, len(v.vc))
		for i, c := range v.vc {
			parts[i] = formatComplex(c)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case Time:
		return strconv.FormatFloat(v.t.Seconds(), 'g', -1, 64)
	default:
		return ""
	}
}

func formatComplex(c complex128) string {
	im := imag(c)
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return strconv.FormatFloat(real(c), 'g', -1, 64) + sign + strconv.FormatFloat(im, 'g', -1, 64) + "i"
}

// toBool implements "boolean ↔ numeric: false ↔ 0, true ↔ non-zero" and
// "boolean ↔ string" with the permissive {"true","1","on"}/{"false","0","off"}
// sets, case-insensitively; any other string yields false.
func (v Value) toBool() bool {
	switch v.tag {
	case Bool:
		return v.b
	case String:
		s := strings.ToLower(strings.TrimSpace(v.s))
		switch s {
		case "true", "1", "on":
			return true
		case "false", "0", "off":
			return false
		default:
			return false
		}
	default:
		return v.toFloat64() != 0
	}
}

// toComplex128 implements "complex ↔ double: double is the real part,
// imaginary zero when widening" for non-complex sources.
func (v Value) toComplex128() complex128 {
	switch v.tag {
	case Complex:
		return v.c
	case ComplexVector:
		if len(v.vc) == 0 {
			return 0
		}
		return v.vc[0]
	default:
		return complex(v.toFloat64(), 0)
	}
}

// toVector implements "vector of T ↔ scalar T: scalar uses element 0 (or
// zero if empty); a scalar widens to a one-element vector" for the double
// vector.
func (v Value) toVector() []float64 {
	switch v.tag {
	case Vector:
		return v.vf
	case ComplexVector:
		out := make([]float64, len(v.vc))
		for i, c := range v.vc {
			out[i] = real(c)
		}
		return out
	default:
		return []float64{v.toFloat64()}
	}
}

func (v Value) toComplexVector() []complex128 {
	switch v.tag {
	case ComplexVector:
		return v.vc
	case Vector:
		out := make([]complex128, len(v.vf))
		for i, f := range v.vf {
			out[i] = complex(f, 0)
		}
		return out
	default:
		return []complex128{v.toComplex128()}
	}
}

// toNamedPoint implements "named point ↔ string: the string field of the
// named point (never the numeric field)" and "named point ↔ double: the
// numeric field" for sources other than NamedPoint itself.
func (v Value) toNamedPoint() Value {
	switch v.tag {
	case NamedPoint:
		return v
	case String:
		return NewNamedPoint(v.s, 0)
	default:
		return NewNamedPoint("", v.toFloat64())
	}
}

// Equal reports whether v and other carry the same tag and payload. Used by
// the change detector for string/named-point/bool equality checks and by
// tests.
func (v Value) Equal(other Value) bool {
	if v.tag != other.tag {
		return false
	}
	switch v.tag {
	case Double:
		return v.f == other.f
	case Int:
		return v.i == other.i
	case String:
		return v.s == other.s
	case Complex:
		return v.c == other.c
	case Vector:
		return equalFloatSlices(v.vf, other.vf)
	case ComplexVector:
		return equalComplexSlices(v.vc, other.vc)
	case NamedPoint:
		return v.np == other.np
	case Bool:
		return v.b == other.b
	case Time:
		return v.t == other.t
	default:
		return false
	}
}

func equalFloatSlices(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalComplexSlices(a, b []complex128) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LInfDistance returns the L-infinity norm of (v - other), used by the
// change detector for complex and vector types. It requires v and other to
// share a tag among {Complex, Vector, ComplexVector}.
func LInfDistance(v, other Value) (float64, error) {
	if v.tag != other.tag {
		return 0, herrors.WrapConfig(herrors.ErrUnknownType, "value", "LInfDistance", "tag mismatch")
	}
	switch v.tag {
	case Complex:
		return cmplx.Abs(v.c - other.c), nil
	case Vector:
		return lInfFloat(v.vf, other.vf), nil
	case ComplexVector:
		return lInfComplex(v.vc, other.vc), nil
	default:
		return 0, herrors.WrapConfig(herrors.ErrUnknownType, "value", "LInfDistance", "unsupported type for L-infinity distance")
	}
}

func lInfFloat(a, b []float64) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	max := 0.0
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		d := math.Abs(av - bv)
		if d > max {
			max = d
		}
	}
	return max
}

func lInfComplex(a, b []complex128) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	max := 0.0
	for i := 0; i < n; i++ {
		var av, bv complex128
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		d := cmplx.Abs(av - bv)
		if d > max {
			max = d
		}
	}
	return max
}
