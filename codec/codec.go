package codec

import (
	"encoding/binary"
	"math"

	herrors "github.com/beroset/HELICS/errors"
	"github.com/beroset/HELICS/value"
)

// Encode serializes v into a self-describing byte buffer whose first byte
// is always v.Type().
func Encode(v value.Value) []byte {
	switch v.Type() {
	case value.Double:
		buf := make([]byte, 9)
		buf[0] = byte(value.Double)
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(v.AsDouble()))
		return buf
	case value.Int:
		buf := make([]byte, 9)
		buf[0] = byte(value.Int)
		binary.BigEndian.PutUint64(buf[1:], uint64(v.AsInt()))
		return buf
	case value.String:
		return encodeTagged(byte(value.String), []byte(v.AsString()))
	case value.Complex:
		buf := make([]byte, 17)
		buf[0] = byte(value.Complex)
		c := v.AsComplex()
		binary.BigEndian.PutUint64(buf[1:9], math.Float64bits(real(c)))
		binary.BigEndian.PutUint64(buf[9:17], math.Float64bits(imag(c)))
		return buf
	case value.Vector:
		vf := v.AsVector()
		buf := make([]byte, 5+8*len(vf))
		buf[0] = byte(value.Vector)
		binary.BigEndian.PutUint32(buf[1:5], uint32(len(vf)))
		for i, f := range vf {
			binary.BigEndian.PutUint64(buf[5+8*i:], math.Float64bits(f))
		}
		return buf
	case value.ComplexVector:
		vc := v.AsComplexVector()
		buf := make([]byte, 5+16*len(vc))
		buf[0] = byte(value.ComplexVector)
		binary.BigEndian.PutUint32(buf[1:5], uint32(len(vc)))
		for i, c := range vc {
			off := 5 + 16*i
			binary.BigEndian.PutUint64(buf[off:], math.Float64bits(real(c)))
			binary.BigEndian.PutUint64(buf[off+8:], math.Float64bits(imag(c)))
		}
		return buf
	case value.NamedPoint:
		np := v.AsNamedPoint()
		nameBuf := encodeTagged(byte(value.NamedPoint), []byte(np.Name))
		buf := make([]byte, len(nameBuf)+8)
		copy(buf, nameBuf)
		binary.BigEndian.PutUint64(buf[len(nameBuf):], math.Float64bits(np.Value))
		return buf
	case value.Bool:
		b := byte(0)
		if v.AsBool() {
			b = 1
		}
		return []byte{byte(value.Bool), b}
	case value.Time:
		buf := make([]byte, 9)
		buf[0] = byte(value.Time)
		binary.BigEndian.PutUint64(buf[1:], uint64(v.AsTime()))
		return buf
	default:
		return []byte{}
	}
}

// encodeTagged writes a tag byte, a big-endian uint32 length, then payload.
func encodeTagged(tag byte, payload []byte) []byte {
	buf := make([]byte, 5+len(payload))
	buf[0] = tag
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(payload)))
	copy(buf[5:], payload)
	return buf
}

// Decode reads a buffer produced by Encode. The decoder determines the
// encoded type from the buffer's first byte and returns a decode error
// (classified via herrors.WrapDecode by the caller, which knows the input's
// name) if the buffer is truncated or the tag is unrecognised.
func Decode(buf []byte) (value.Value, error) {
	if len(buf) == 0 {
		return value.Value{}, herrors.ErrUnknownTag
	}
	tag := value.Type(buf[0])
	body := buf[1:]
	switch tag {
	case value.Double:
		if len(body) < 8 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		return value.NewDouble(math.Float64frombits(binary.BigEndian.Uint64(body))), nil
	case value.Int:
		if len(body) < 8 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		return value.NewInt(int64(binary.BigEndian.Uint64(body))), nil
	case value.String:
		s, _, err := decodeTagged(buf)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewString(string(s)), nil
	case value.Complex:
		if len(body) < 16 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		re := math.Float64frombits(binary.BigEndian.Uint64(body[0:8]))
		im := math.Float64frombits(binary.BigEndian.Uint64(body[8:16]))
		return value.NewComplex(complex(re, im)), nil
	case value.Vector:
		if len(body) < 4 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		n := int(binary.BigEndian.Uint32(body[0:4]))
		rest := body[4:]
		if len(rest) < 8*n {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		vf := make([]float64, n)
		for i := 0; i < n; i++ {
			vf[i] = math.Float64frombits(binary.BigEndian.Uint64(rest[8*i:]))
		}
		return value.NewVector(vf), nil
	case value.ComplexVector:
		if len(body) < 4 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		n := int(binary.BigEndian.Uint32(body[0:4]))
		rest := body[4:]
		if len(rest) < 16*n {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		vc := make([]complex128, n)
		for i := 0; i < n; i++ {
			off := 16 * i
			re := math.Float64frombits(binary.BigEndian.Uint64(rest[off:]))
			im := math.Float64frombits(binary.BigEndian.Uint64(rest[off+8:]))
			vc[i] = complex(re, im)
		}
		return value.NewComplexVector(vc), nil
	case value.NamedPoint:
		name, consumed, err := decodeTagged(buf)
		if err != nil {
			return value.Value{}, err
		}
		rest := buf[consumed:]
		if len(rest) < 8 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		val := math.Float64frombits(binary.BigEndian.Uint64(rest))
		return value.NewNamedPoint(string(name), val), nil
	case value.Bool:
		if len(body) < 1 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		return value.NewBool(body[0] != 0), nil
	case value.Time:
		if len(body) < 8 {
			return value.Value{}, herrors.ErrTruncatedBuffer
		}
		return value.NewTime(value.SimTime(binary.BigEndian.Uint64(body))), nil
	default:
		return value.Value{}, herrors.ErrUnknownTag
	}
}

// decodeTagged reads the tag+length+payload format written by encodeTagged,
// returning the payload and the number of bytes consumed from the start of
// buf (including the tag byte).
func decodeTagged(buf []byte) (payload []byte, consumed int, err error) {
	if len(buf) < 5 {
		return nil, 0, herrors.ErrTruncatedBuffer
	}
	n := int(binary.BigEndian.Uint32(buf[1:5]))
	if len(buf) < 5+n {
		return nil, 0, herrors.ErrTruncatedBuffer
	}
	return buf[5 : 5+n], 5 + n, nil
}

// DecodeType returns the primary type encoded at the start of buf without
// decoding the whole payload, for the input registry's lazy type discovery.
func DecodeType(buf []byte) (value.Type, error) {
	if len(buf) == 0 {
		return 0, herrors.ErrUnknownTag
	}
	t := value.Type(buf[0])
	if t < value.Double || t > value.Time {
		return 0, herrors.ErrUnknownTag
	}
	return t, nil
}
