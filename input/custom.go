package input

import (
	"errors"

	"github.com/xeipuuv/gojsonschema"

	herrors "github.com/beroset/HELICS/errors"
)

// CustomCodec decodes a raw buffer into an application-defined value for an
// input declared with a non-primary target type. Unlike the nine primary
// types, the decoded result is stored opaquely and never passes through
// value.Value.
type CustomCodec interface {
	DecodeCustom(raw []byte) (any, error)
}

// CustomCodecFunc adapts a plain function to CustomCodec.
type CustomCodecFunc func(raw []byte) (any, error)

// DecodeCustom implements CustomCodec.
func (f CustomCodecFunc) DecodeCustom(raw []byte) (any, error) { return f(raw) }

// CustomComparator reports whether two decoded custom values are equal, for
// change detection on a type the built-in comparator (value.Value.Equal)
// cannot see. An input with no comparator treats every publication as
// changed, per §4.1's "change-detection disabled for custom types unless
// the user supplies a comparator".
type CustomComparator func(a, b any) bool

// customSchema wraps a compiled JSON Schema used to validate a custom
// input's raw buffer before it reaches the codec. A schema violation is a
// decode error, not a configuration error, because it is only discoverable
// per-publication.
type customSchema struct {
	schema *gojsonschema.Schema
}

// NewCustomSchema compiles schemaJSON (a JSON Schema document) for use with
// Input.SetCustomType.
func NewCustomSchema(schemaJSON []byte) (*customSchema, error) {
	loader := gojsonschema.NewBytesLoader(schemaJSON)
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, herrors.WrapConfig(err, "input", "NewCustomSchema", "invalid JSON Schema document")
	}
	return &customSchema{schema: schema}, nil
}

// validate checks raw (interpreted as a JSON document) against the compiled
// schema, returning an error listing every violation on failure; the input
// records it as a DecodeError.
func (s *customSchema) validate(raw []byte) error {
	if s == nil {
		return nil
	}
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	msg := "schema validation failed:"
	for _, e := range result.Errors() {
		msg += " " + e.String() + ";"
	}
	return errors.New(msg)
}
