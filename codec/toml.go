package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/serexlab/serex/value"
)

var tomlCodec = Codec{
	Name:   "toml",
	Decode: decodeTOML,
	Encode: encodeTOML,
}

// TOML tables are decoded through an unordered Go map, so keys are sorted
// when the value is built (the encoder sorts too, keeping round-trips
// deterministic).  Datetimes become RFC 3339 strings.
func decodeTOML(input []byte) (value.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(input, &raw); err != nil {
		return nil, &DecodeError{Format: "toml", Err: err}
	}
	v, err := value.FromGo(raw)
	if err != nil {
		return nil, &DecodeError{Format: "toml", Err: err}
	}
	return v, nil
}

// TOML requires a table at the top level and has no null, so a bare
// scalar, an array, or any Null in the tree is an encode error.
func encodeTOML(v value.Value) ([]byte, error) {
	m, ok := v.(*value.Map)
	if !ok {
		return nil, &EncodeError{Format: "toml", Err: fmt.Errorf("top-level value is %s, want map", v.Kind())}
	}
	if err := rejectNull(v); err != nil {
		return nil, &EncodeError{Format: "toml", Err: err}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(value.ToGo(m)); err != nil {
		return nil, &EncodeError{Format: "toml", Err: err}
	}
	return buf.Bytes(), nil
}

func rejectNull(v value.Value) error {
	switch x := v.(type) {
	case value.Null:
		return errors.New("null is not representable")
	case value.Array:
		for _, item := range x {
			if err := rejectNull(item); err != nil {
				return err
			}
		}
	case *value.Map:
		for _, k := range x.Keys() {
			item, _ := x.Get(k)
			if err := rejectNull(item); err != nil {
				return err
			}
		}
	}
	return nil
}
