package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beroset/HELICS/value"
)

func TestEncodeDecode_RoundTripsEveryPrimaryType(t *testing.T) {
	cases := []value.Value{
		value.NewDouble(3.5),
		value.NewDouble(-0.0001),
		value.NewInt(-42),
		value.NewString("hello, world"),
		value.NewString(""),
		value.NewComplex(complex(1, -2)),
		value.NewVector([]float64{1, 2, 3}),
		value.NewVector(nil),
		value.NewComplexVector([]complex128{complex(1, 1), complex(2, -2)}),
		value.NewNamedPoint("site-A", 12.5),
		value.NewBool(true),
		value.NewBool(false),
		value.NewTime(value.SimTimeFromSeconds(12.25)),
	}

	for _, v := range cases {
		buf := Encode(v)
		decoded, err := Decode(buf)
		require.NoError(t, err)
		assert.True(t, v.Equal(decoded), "decode(encode(%v)) != %v, got %v", v, v, decoded)
	}
}

func TestDecode_DeterminesTypeFromPrefix(t *testing.T) {
	buf := Encode(value.NewDouble(1))
	tt, err := DecodeType(buf)
	require.NoError(t, err)
	assert.Equal(t, value.Double, tt)
}

func TestDecode_TruncatedBufferErrors(t *testing.T) {
	buf := Encode(value.NewDouble(1))
	_, err := Decode(buf[:3])
	assert.Error(t, err)
}

func TestDecode_UnknownTagErrors(t *testing.T) {
	_, err := Decode([]byte{99, 1, 2, 3})
	assert.Error(t, err)
}

func TestDecode_EmptyBufferErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}
