package codec

import (
	"bytes"

	pickle "github.com/kisielk/og-rek"

	"github.com/serexlab/serex/value"
)

var pickleCodec = Codec{
	Name:   "pickle",
	Decode: decodePickle,
	Encode: encodePickle,
}

// Pickle None maps to Null and tuples collapse into arrays.  Dicts are
// unordered on the wire, so decoded map keys are sorted; longs outside
// the int64 range are a decode error.
func decodePickle(input []byte) (value.Value, error) {
	raw, err := pickle.NewDecoder(bytes.NewReader(input)).Decode()
	if err != nil {
		return nil, &DecodeError{Format: "pickle", Err: err}
	}
	v, err := pickleValue(raw)
	if err != nil {
		return nil, &DecodeError{Format: "pickle", Err: err}
	}
	return v, nil
}

func pickleValue(x any) (value.Value, error) {
	switch v := x.(type) {
	case pickle.None:
		return value.Null{}, nil
	case pickle.Tuple:
		return pickleSlice(v)
	case []any:
		return pickleSlice(v)
	case map[any]any:
		plain := make(map[any]any, len(v))
		for k, item := range v {
			converted, err := pickleValue(item)
			if err != nil {
				return nil, err
			}
			plain[k] = converted
		}
		return value.FromGo(plain)
	default:
		return value.FromGo(v)
	}
}

func pickleSlice(items []any) (value.Value, error) {
	arr := make(value.Array, len(items))
	for i, item := range items {
		v, err := pickleValue(item)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return arr, nil
}

func encodePickle(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := pickle.NewEncoder(&buf).Encode(pickleGo(v)); err != nil {
		return nil, &EncodeError{Format: "pickle", Err: err}
	}
	return buf.Bytes(), nil
}

func pickleGo(v value.Value) any {
	switch x := v.(type) {
	case value.Null:
		return pickle.None{}
	case value.Array:
		items := make([]any, len(x))
		for i, item := range x {
			items[i] = pickleGo(item)
		}
		return items
	case *value.Map:
		m := make(map[any]any, x.Len())
		for _, k := range x.Keys() {
			item, _ := x.Get(k)
			m[k] = pickleGo(item)
		}
		return m
	default:
		return value.ToGo(v)
	}
}
