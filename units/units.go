package units

import (
	"math"
	"strings"

	herrors "github.com/beroset/HELICS/errors"
	"github.com/beroset/HELICS/value"
)

// unit describes one recognised unit expression: which dimension it belongs
// to, and the affine map x_base = scale*x + offset that converts a value in
// this unit to the dimension's base unit.
type unit struct {
	dimension string
	scale     float64
	offset    float64
}

// table of recognised units. Unrecognised expressions are a configuration
// error, not silently treated as dimensionless.
var table = map[string]unit{
	// length, base = meter
	"m":  {"length", 1, 0},
	"km": {"length", 1000, 0},
	"cm": {"length", 0.01, 0},
	"mm": {"length", 0.001, 0},
	"ft": {"length", 0.3048, 0},
	"mi": {"length", 1609.344, 0},

	// temperature, base = kelvin
	"k":    {"temperature", 1, 0},
	"degc": {"temperature", 1, 273.15},
	"degf": {"temperature", 5.0 / 9.0, 255.3722222222222},

	// angle, base = radian
	"rad": {"angle", 1, 0},
	"deg": {"angle", math.Pi / 180, 0},

	// dimensionless
	"":    {"dimensionless", 1, 0},
	"pu":  {"dimensionless", 1, 0},
	"pct": {"dimensionless", 0.01, 0},

	// time, base = second
	"s":   {"time", 1, 0},
	"ms":  {"time", 0.001, 0},
	"min": {"time", 60, 0},
	"hr":  {"time", 3600, 0},

	// power, base = watt
	"w":  {"power", 1, 0},
	"kw": {"power", 1000, 0},
	"mw": {"power", 1e6, 0},
}

func lookup(expr string) (unit, bool) {
	u, ok := table[strings.ToLower(strings.TrimSpace(expr))]
	return u, ok
}

// Map is the linear conversion y = Scale*x + Offset between two
// commensurable units.
type Map struct {
	Scale  float64
	Offset float64
}

// Identity is the no-op conversion.
var Identity = Map{Scale: 1, Offset: 0}

// Apply converts x from the input unit to the output unit.
func (m Map) Apply(x float64) float64 { return m.Scale*x + m.Offset }

// ApplyVector converts every element of xs, element-wise.
func (m Map) ApplyVector(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = m.Apply(x)
	}
	return out
}

// ApplyInt converts x via double and rounds half-to-even back into an
// integer, clamping to the int64 range the same way value.SaturateInt64
// does. The second return value reports whether the rounded result fell
// outside that range and had to be clamped.
func (m Map) ApplyInt(x int64) (int64, bool) {
	rounded := math.RoundToEven(m.Apply(float64(x)))
	clamped := value.SaturateInt64(rounded)
	return clamped, float64(clamped) != rounded
}

// Bridge returns the Map that converts a value expressed in inUnit to
// outUnit. If both are absent ("") or textually equal, it returns Identity.
// If they are not commensurable (different dimension, or either is
// unrecognised), it returns a configuration error — the bridge never
// silently drops a non-commensurable pair.
func Bridge(inUnit, outUnit string) (Map, error) {
	in := strings.ToLower(strings.TrimSpace(inUnit))
	out := strings.ToLower(strings.TrimSpace(outUnit))

	if in == out {
		return Identity, nil
	}

	inU, ok := lookup(in)
	if !ok {
		return Map{}, herrors.WrapConfig(herrors.ErrUnknownUnit, "units", "Bridge", "input unit: "+inUnit)
	}
	outU, ok := lookup(out)
	if !ok {
		return Map{}, herrors.WrapConfig(herrors.ErrUnknownUnit, "units", "Bridge", "output unit: "+outUnit)
	}
	if inU.dimension != outU.dimension {
		return Map{}, herrors.WrapConfig(herrors.ErrNonCommensurable, "units", "Bridge", inUnit+" -> "+outUnit)
	}

	// value_base = inU.scale*x + inU.offset
	// x_out = (value_base - outU.offset) / outU.scale
	scale := inU.scale / outU.scale
	offset := (inU.offset - outU.offset) / outU.scale
	return Map{Scale: scale, Offset: offset}, nil
}

// Commensurable reports whether inUnit and outUnit belong to the same
// dimension (or are both absent) without building the Map.
func Commensurable(inUnit, outUnit string) bool {
	_, err := Bridge(inUnit, outUnit)
	return err == nil
}
