package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/serexlab/serex/value"
)

var bincodeCodec = Codec{
	Name:   "bincode",
	Decode: decodeBincode,
	Encode: encodeBincode,
}

// The bincode wire layout mirrors how a tagged union is laid out by
// little-endian binary serializers: a u32 shape tag followed by the
// payload.
//
//	0 null
//	1 bool    u8 (0 or 1)
//	2 int     i64
//	3 float   f64 (IEEE 754 bits)
//	4 string  u64 length + bytes
//	5 array   u64 count + elements
//	6 map     u64 count + (string key, value) pairs
//
// All integers are little-endian.  The layout is self-describing and
// deterministic: map entries are written in insertion order.
const (
	bincodeNull uint32 = iota
	bincodeBool
	bincodeInt
	bincodeFloat
	bincodeString
	bincodeArray
	bincodeMap
)

var errBincodeTruncated = errors.New("truncated input")

func encodeBincode(v value.Value) ([]byte, error) {
	return appendBincode(nil, v), nil
}

func appendBincode(out []byte, v value.Value) []byte {
	switch x := v.(type) {
	case value.Null:
		out = binary.LittleEndian.AppendUint32(out, bincodeNull)
	case value.Bool:
		out = binary.LittleEndian.AppendUint32(out, bincodeBool)
		if x {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	case value.Int:
		out = binary.LittleEndian.AppendUint32(out, bincodeInt)
		out = binary.LittleEndian.AppendUint64(out, uint64(x))
	case value.Float:
		out = binary.LittleEndian.AppendUint32(out, bincodeFloat)
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(float64(x)))
	case value.String:
		out = binary.LittleEndian.AppendUint32(out, bincodeString)
		out = appendBincodeString(out, string(x))
	case value.Array:
		out = binary.LittleEndian.AppendUint32(out, bincodeArray)
		out = binary.LittleEndian.AppendUint64(out, uint64(len(x)))
		for _, item := range x {
			out = appendBincode(out, item)
		}
	case *value.Map:
		out = binary.LittleEndian.AppendUint32(out, bincodeMap)
		out = binary.LittleEndian.AppendUint64(out, uint64(x.Len()))
		for _, k := range x.Keys() {
			out = appendBincodeString(out, k)
			item, _ := x.Get(k)
			out = appendBincode(out, item)
		}
	}
	return out
}

func appendBincodeString(out []byte, s string) []byte {
	out = binary.LittleEndian.AppendUint64(out, uint64(len(s)))
	return append(out, s...)
}

func decodeBincode(input []byte) (value.Value, error) {
	r := &bincodeReader{buf: input}
	v, err := r.value()
	if err != nil {
		return nil, &DecodeError{Format: "bincode", Err: err}
	}
	if len(r.buf) > 0 {
		return nil, &DecodeError{Format: "bincode", Err: errors.New("trailing data after value")}
	}
	return v, nil
}

type bincodeReader struct {
	buf []byte
}

func (r *bincodeReader) value() (value.Value, error) {
	tag, err := r.uint32()
	if err != nil {
		return nil, err
	}
	switch tag {
	case bincodeNull:
		return value.Null{}, nil
	case bincodeBool:
		b, err := r.byte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, fmt.Errorf("invalid bool byte 0x%02x", b)
		}
		return value.Bool(b == 1), nil
	case bincodeInt:
		u, err := r.uint64()
		if err != nil {
			return nil, err
		}
		return value.Int(u), nil
	case bincodeFloat:
		u, err := r.uint64()
		if err != nil {
			return nil, err
		}
		return value.Float(math.Float64frombits(u)), nil
	case bincodeString:
		s, err := r.string()
		if err != nil {
			return nil, err
		}
		return value.String(s), nil
	case bincodeArray:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		arr := make(value.Array, n)
		for i := range arr {
			if arr[i], err = r.value(); err != nil {
				return nil, err
			}
		}
		return arr, nil
	case bincodeMap:
		n, err := r.length()
		if err != nil {
			return nil, err
		}
		m := value.NewMap()
		for i := 0; i < n; i++ {
			k, err := r.string()
			if err != nil {
				return nil, err
			}
			item, err := r.value()
			if err != nil {
				return nil, err
			}
			m.Set(k, item)
		}
		return m, nil
	}
	return nil, fmt.Errorf("invalid shape tag %d", tag)
}

func (r *bincodeReader) byte() (byte, error) {
	if len(r.buf) < 1 {
		return 0, errBincodeTruncated
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, nil
}

func (r *bincodeReader) uint32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, errBincodeTruncated
	}
	u := binary.LittleEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return u, nil
}

func (r *bincodeReader) uint64() (uint64, error) {
	if len(r.buf) < 8 {
		return 0, errBincodeTruncated
	}
	u := binary.LittleEndian.Uint64(r.buf)
	r.buf = r.buf[8:]
	return u, nil
}

// length reads a u64 count and bounds it by the remaining input, so a
// corrupt count cannot trigger a huge allocation.
func (r *bincodeReader) length() (int, error) {
	u, err := r.uint64()
	if err != nil {
		return 0, err
	}
	if u > uint64(len(r.buf)) {
		return 0, errBincodeTruncated
	}
	return int(u), nil
}

func (r *bincodeReader) string() (string, error) {
	n, err := r.length()
	if err != nil {
		return "", err
	}
	s := string(r.buf[:n])
	r.buf = r.buf[n:]
	return s, nil
}
