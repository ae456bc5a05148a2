// Package units implements a unit bridge: parsing a unit expression and
// producing the scale/offset linear map between two commensurable units.
//
// No example repo or ecosystem dependency in the retrieval pack addresses
// physical unit-of-measure conversion (see DESIGN.md); the parser here is a
// small static table, built in the validation-function style of
// config/validator.go (a pure function returning a classified error rather
// than panicking or logging).
package units
