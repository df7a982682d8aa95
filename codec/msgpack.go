package codec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/serexlab/serex/value"
)

var msgpackCodec = Codec{
	Name:   "msgpack",
	Decode: decodeMsgpack,
	Encode: encodeMsgpack,
}

// decodeMsgpack drives the decoder one code at a time so map entries are
// seen in wire order.  Integers stay Int (uint64 values beyond the int64
// range are an error), bin payloads become String, extension types are
// not supported.
func decodeMsgpack(input []byte) (value.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(input))
	v, err := msgpackValue(dec)
	if err != nil {
		return nil, &DecodeError{Format: "msgpack", Err: err}
	}
	return v, nil
}

func msgpackValue(dec *msgpack.Decoder) (value.Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case code == msgpcode.Nil:
		return value.Null{}, dec.DecodeNil()
	case code == msgpcode.True || code == msgpcode.False:
		b, err := dec.DecodeBool()
		return value.Bool(b), err
	case msgpcode.IsFixedNum(code),
		code == msgpcode.Int8, code == msgpcode.Int16,
		code == msgpcode.Int32, code == msgpcode.Int64,
		code == msgpcode.Uint8, code == msgpcode.Uint16,
		code == msgpcode.Uint32:
		n, err := dec.DecodeInt64()
		return value.Int(n), err
	case code == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return nil, err
		}
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d out of int64 range", u)
		}
		return value.Int(u), nil
	case code == msgpcode.Float || code == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		return value.Float(f), err
	case msgpcode.IsString(code):
		s, err := dec.DecodeString()
		return value.String(s), err
	case msgpcode.IsBin(code):
		b, err := dec.DecodeBytes()
		return value.String(b), err
	case msgpcode.IsFixedArray(code), code == msgpcode.Array16, code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		arr := make(value.Array, n)
		for i := range arr {
			if arr[i], err = msgpackValue(dec); err != nil {
				return nil, err
			}
		}
		return arr, nil
	case msgpcode.IsFixedMap(code), code == msgpcode.Map16, code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := value.NewMap()
		for i := 0; i < n; i++ {
			key, err := msgpackValue(dec)
			if err != nil {
				return nil, err
			}
			ks, ok := key.(value.String)
			if !ok {
				return nil, fmt.Errorf("map key %s is not a string", key)
			}
			item, err := msgpackValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(string(ks), item)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported code 0x%02x", code)
}

func encodeMsgpack(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := msgpackEncode(enc, v); err != nil {
		return nil, &EncodeError{Format: "msgpack", Err: err}
	}
	return buf.Bytes(), nil
}

func msgpackEncode(enc *msgpack.Encoder, v value.Value) error {
	switch x := v.(type) {
	case value.Null:
		return enc.EncodeNil()
	case value.Bool:
		return enc.EncodeBool(bool(x))
	case value.Int:
		return enc.EncodeInt(int64(x))
	case value.Float:
		return enc.EncodeFloat64(float64(x))
	case value.String:
		return enc.EncodeString(string(x))
	case value.Array:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, item := range x {
			if err := msgpackEncode(enc, item); err != nil {
				return err
			}
		}
		return nil
	case *value.Map:
		if err := enc.EncodeMapLen(x.Len()); err != nil {
			return err
		}
		for _, k := range x.Keys() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			item, _ := x.Get(k)
			if err := msgpackEncode(enc, item); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("invalid value type %T", v)
}
