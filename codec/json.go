package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/serexlab/serex/value"
)

var jsonCodec = Codec{
	Name:   "json",
	Decode: decodeJSON,
	Encode: encodeJSON,
}

// decodeJSON walks the input token by token rather than unmarshalling into
// a Go map, so that object key order is preserved and integers are kept
// distinct from floats: a number without '.', 'e' or 'E' becomes an Int,
// everything else a Float.
func decodeJSON(input []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = errors.New("empty input")
		}
		return nil, &DecodeError{Format: "json", Err: err}
	}
	v, err := jsonValue(dec, tok)
	if err != nil {
		return nil, &DecodeError{Format: "json", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Format: "json", Err: errors.New("trailing data after value")}
	}
	return v, nil
}

func jsonValue(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		return jsonNumber(t)
	case json.Delim:
		switch t {
		case '[':
			return jsonArray(dec)
		case '{':
			return jsonObject(dec)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func jsonNumber(n json.Number) (value.Value, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		i, err := n.Int64()
		if err != nil {
			return nil, err
		}
		return value.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return value.Float(f), nil
}

func jsonArray(dec *json.Decoder) (value.Value, error) {
	arr := value.Array{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		item, err := jsonValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, item)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return arr, nil
}

func jsonObject(dec *json.Decoder) (value.Value, error) {
	m := value.NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		item, err := jsonValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		m.Set(key, item)
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return m, nil
}

func encodeJSON(v value.Value) ([]byte, error) {
	return appendJSON(nil, v, "", 0, "json")
}

// appendJSON renders v, preserving map insertion order.  A non-empty
// indent string switches to multi-line output at one indent per nesting
// level.
func appendJSON(out []byte, v value.Value, indent string, depth int, format string) ([]byte, error) {
	var err error
	switch x := v.(type) {
	case value.Null:
		out = append(out, "null"...)
	case value.Bool:
		out = strconv.AppendBool(out, bool(x))
	case value.Int:
		out = strconv.AppendInt(out, int64(x), 10)
	case value.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &EncodeError{Format: format, Err: fmt.Errorf("%v is not representable", f)}
		}
		start := len(out)
		out = strconv.AppendFloat(out, f, 'g', -1, 64)
		// Keep integral floats distinguishable from ints.
		if !bytes.ContainsAny(out[start:], ".eE") {
			out = append(out, ".0"...)
		}
	case value.String:
		out, err = appendJSONString(out, string(x), format)
		if err != nil {
			return nil, err
		}
	case value.Array:
		if len(x) == 0 {
			return append(out, "[]"...), nil
		}
		out = append(out, '[')
		for i, item := range x {
			if i > 0 {
				out = append(out, ',')
			}
			out = appendNewline(out, indent, depth+1)
			out, err = appendJSON(out, item, indent, depth+1, format)
			if err != nil {
				return nil, err
			}
		}
		out = appendNewline(out, indent, depth)
		out = append(out, ']')
	case *value.Map:
		if x.Len() == 0 {
			return append(out, "{}"...), nil
		}
		out = append(out, '{')
		for i, k := range x.Keys() {
			if i > 0 {
				out = append(out, ',')
			}
			out = appendNewline(out, indent, depth+1)
			out, err = appendJSONString(out, k, format)
			if err != nil {
				return nil, err
			}
			out = append(out, ':')
			if indent != "" {
				out = append(out, ' ')
			}
			item, _ := x.Get(k)
			out, err = appendJSON(out, item, indent, depth+1, format)
			if err != nil {
				return nil, err
			}
		}
		out = appendNewline(out, indent, depth)
		out = append(out, '}')
	}
	return out, nil
}

func appendJSONString(out []byte, s string, format string) ([]byte, error) {
	quoted, err := json.Marshal(s)
	if err != nil {
		return nil, &EncodeError{Format: format, Err: err}
	}
	return append(out, quoted...), nil
}

func appendNewline(out []byte, indent string, depth int) []byte {
	if indent == "" {
		return out
	}
	out = append(out, '\n')
	for i := 0; i < depth; i++ {
		out = append(out, indent...)
	}
	return out
}
