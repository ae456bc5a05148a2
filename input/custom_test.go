package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beroset/HELICS/federate"
)

const geoPointSchema = `{
	"type": "object",
	"properties": {
		"lat": {"type": "number"},
		"lon": {"type": "number"}
	},
	"required": ["lat", "lon"]
}`

func TestCustomInput_DecodesAndValidatesAgainstSchema(t *testing.T) {
	schema, err := NewCustomSchema([]byte(geoPointSchema))
	require.NoError(t, err)

	core := federate.NewLocalCore()
	in := NewInput(core, "sub1")
	require.NoError(t, in.SetCustomType("geopoint", CustomCodecFunc(func(raw []byte) (any, error) {
		return string(raw), nil
	}), WithSchema(schema)))
	require.NoError(t, in.AddTarget("pub1"))

	h := core.Register("pub1")
	core.Publish(h, []byte(`{"lat": 1.0, "lon": 2.0}`), "custom", "", 0)

	assert.True(t, in.CheckUpdate(true))
	v, ok := in.CustomValue()
	require.True(t, ok)
	assert.JSONEq(t, `{"lat": 1.0, "lon": 2.0}`, v.(string))
}

func TestCustomInput_SchemaViolationIsDecodeError(t *testing.T) {
	schema, err := NewCustomSchema([]byte(geoPointSchema))
	require.NoError(t, err)

	core := federate.NewLocalCore()
	in := NewInput(core, "sub1")
	require.NoError(t, in.SetCustomType("geopoint", CustomCodecFunc(func(raw []byte) (any, error) {
		return string(raw), nil
	}), WithSchema(schema)))
	require.NoError(t, in.AddTarget("pub1"))

	h := core.Register("pub1")
	core.Publish(h, []byte(`{"lat": 1.0}`), "custom", "", 0)

	assert.False(t, in.CheckUpdate(true))
	require.Error(t, in.LastError())
}

func TestCustomInput_NoComparatorAlwaysChanges(t *testing.T) {
	core := federate.NewLocalCore()
	in := NewInput(core, "sub1")
	require.NoError(t, in.SetCustomType("blob", CustomCodecFunc(func(raw []byte) (any, error) {
		return string(raw), nil
	})))
	require.NoError(t, in.AddTarget("pub1"))
	h := core.Register("pub1")

	core.Publish(h, []byte("same"), "custom", "", 0)
	assert.True(t, in.CheckUpdate(true))

	core.Publish(h, []byte("same"), "custom", "", 1)
	assert.True(t, in.CheckUpdate(true))
}

func TestCustomInput_WithComparatorSuppressesUnchanged(t *testing.T) {
	core := federate.NewLocalCore()
	in := NewInput(core, "sub1")
	require.NoError(t, in.SetCustomType("blob", CustomCodecFunc(func(raw []byte) (any, error) {
		return string(raw), nil
	}), WithComparator(func(a, b any) bool { return a.(string) == b.(string) })))
	require.NoError(t, in.AddTarget("pub1"))
	h := core.Register("pub1")

	core.Publish(h, []byte("same"), "custom", "", 0)
	assert.True(t, in.CheckUpdate(true))

	core.Publish(h, []byte("same"), "custom", "", 1)
	assert.False(t, in.CheckUpdate(true))
}
