package codec

import "github.com/serexlab/serex/value"

// Hjson output is rendered as four-space indented JSON, which is valid
// Hjson.  On the decode side only the JSON subset of the Hjson syntax is
// accepted (quoteless strings and comments are not supported).
var hjsonCodec = Codec{
	Name:   "hjson",
	Decode: decodeHjson,
	Encode: encodeHjson,
}

func decodeHjson(input []byte) (value.Value, error) {
	v, err := decodeJSON(input)
	if err != nil {
		return nil, &DecodeError{Format: "hjson", Err: err.(*DecodeError).Err}
	}
	return v, nil
}

func encodeHjson(v value.Value) ([]byte, error) {
	return appendJSON(nil, v, "    ", 0, "hjson")
}
