// Package value implements a tagged-value container: a closed set of nine
// primary value types (double, int, string, complex, vector<double>,
// vector<complex>, named point, bool, simulation time) with deterministic,
// lossless-where-possible conversion between them.
//
// The container replaces any inheritance hierarchy with a single struct
// carrying a Type discriminant ("sum-type over value types"): dispatch on
// primary type is a jump table with nine arms rather than a virtual call.
// Conversion rules not explicitly enumerated (e.g. named point → bool) fall
// back deterministically to the nearest listed pivot (numeric via float64,
// textual via the canonical string form) rather than being left undefined.
package value
