package serex

import (
	"github.com/serexlab/serex/codec"
	"github.com/serexlab/serex/value"
)

// Decode parses one message's bytes in the named format into a neutral
// value.
func Decode(input []byte, format string) (value.Value, error) {
	decode, err := codec.Decoder(format)
	if err != nil {
		return nil, err
	}
	return decode(input)
}

// Encode renders a neutral value as one message's bytes in the named
// format.
func Encode(v value.Value, format string) ([]byte, error) {
	encode, err := codec.Encoder(format)
	if err != nil {
		return nil, err
	}
	return encode(v)
}

// Transcode converts one message from one format to another through the
// neutral value model.
//
//	out, err := serex.Transcode([]byte(`{"bool":true}`), "json", "msgpack")
//	// out == []byte{0x81, 0xA4, 'b', 'o', 'o', 'l', 0xC3}
func Transcode(input []byte, from, to string) ([]byte, error) {
	v, err := Decode(input, from)
	if err != nil {
		return nil, err
	}
	return Encode(v, to)
}
